package controllers

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/api/middleware"
	"github.com/relovedshop/reloved-backend/api/responses"
	"github.com/relovedshop/reloved-backend/api/validators"
	"github.com/relovedshop/reloved-backend/internal/catalog"
	"github.com/relovedshop/reloved-backend/internal/collections"
	pkgerrors "github.com/relovedshop/reloved-backend/pkg/errors"
	"github.com/relovedshop/reloved-backend/pkg/logger"
	"github.com/relovedshop/reloved-backend/pkg/metrics"
)

// CollectionDeps bundles everything shared by the cart and likes endpoints.
// Controllers themselves are built per request from the caller's identity.
type CollectionDeps struct {
	GuestCart   collections.Store
	RemoteCart  collections.Store
	GuestLikes  collections.Store
	RemoteLikes collections.Store
	Catalog     catalog.Service
	Metrics     *metrics.CollectionMetrics
	Logger      *logger.Logger
}

// AddCollectionItemRequest references the listing to add by its catalog id.
type AddCollectionItemRequest struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
}

// SetQuantityRequest carries the new quantity for one cart row.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// FeedbackDTO is the toast payload surfaced to the storefront.
type FeedbackDTO struct {
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// CollectionResponse is the common envelope for collection mutations and reads.
type CollectionResponse struct {
	Items    []collections.Item `json:"items"`
	Feedback []FeedbackDTO      `json:"feedback,omitempty"`
	OK       bool               `json:"ok"`
}

// captureSink records feedback so the handler can return it in the response
// body alongside the updated list.
type captureSink struct {
	mu       sync.Mutex
	messages []FeedbackDTO
}

func (s *captureSink) Publish(_ context.Context, fb collections.Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, FeedbackDTO{
		Severity:    string(fb.Severity),
		Title:       fb.Title,
		Description: fb.Description,
	})
}

func (s *captureSink) drain() []FeedbackDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.messages
	s.messages = nil
	return out
}

// identityFromRequest derives the collection identity set by the auth and
// guest token middleware. An authenticated user always wins over the token.
func identityFromRequest(r *http.Request) (collections.Identity, error) {
	if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return collections.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
		}
		return collections.Identity{UserID: userID, Authenticated: true}, nil
	}
	token := middleware.GuestTokenFromContext(r.Context())
	if token == "" {
		return collections.Identity{}, pkgerrors.New(pkgerrors.CodeValidation, "missing guest token")
	}
	return collections.Identity{GuestToken: token}, nil
}

// controllerFor builds a request-scoped controller bound to the caller's
// identity. The caller must Close it before writing the response.
func (d CollectionDeps) controllerFor(r *http.Request, kind collections.Kind) (*collections.Controller, *captureSink, error) {
	identity, err := identityFromRequest(r)
	if err != nil {
		return nil, nil, err
	}

	guest, remote := d.GuestCart, d.RemoteCart
	if kind == collections.KindLikes {
		guest, remote = d.GuestLikes, d.RemoteLikes
	}

	sink := &captureSink{}
	ctrl, err := collections.NewController(collections.ControllerParams{
		Kind:    kind,
		Guest:   guest,
		Remote:  remote,
		Auth:    collections.NewStaticAuthState(identity),
		Sink:    sink,
		Metrics: d.Metrics,
		Logger:  d.Logger,
	})
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "collection unavailable")
	}
	return ctrl, sink, nil
}

// ListCollection returns the caller's current cart or likes list.
func ListCollection(deps CollectionDeps, kind collections.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, sink, err := deps.controllerFor(r, kind)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		defer ctrl.Close()

		ctrl.Reload(r.Context())
		responses.WriteSuccess(w, CollectionResponse{
			Items:    ctrl.Items(),
			Feedback: sink.drain(),
			OK:       true,
		})
	}
}

// AddCollectionItem resolves the listing and adds it to the caller's
// collection. Persistence failures surface as destructive feedback with
// ok=false, never as an HTTP error.
func AddCollectionItem(deps CollectionDeps, kind collections.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body AddCollectionItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		listing, err := deps.Catalog.Get(r.Context(), body.ListingID)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		if listing.Sold {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.New(pkgerrors.CodeConflict, "listing is no longer available"))
			return
		}

		ctrl, sink, err := deps.controllerFor(r, kind)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		defer ctrl.Close()

		ok := ctrl.Add(r.Context(), collections.Item{
			ItemID:   listing.ID.String(),
			Snapshot: catalog.SnapshotFromDTO(listing),
			Quantity: 1,
		})
		responses.WriteSuccess(w, CollectionResponse{
			Items:    ctrl.Items(),
			Feedback: sink.drain(),
			OK:       ok,
		})
	}
}

// SetCollectionQuantity updates the quantity on one cart row.
func SetCollectionQuantity(deps CollectionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body SetQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		ctrl, sink, err := deps.controllerFor(r, collections.KindCart)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		defer ctrl.Close()

		ok := ctrl.SetQuantity(r.Context(), chi.URLParam(r, "localID"), body.Quantity)
		responses.WriteSuccess(w, CollectionResponse{
			Items:    ctrl.Items(),
			Feedback: sink.drain(),
			OK:       ok,
		})
	}
}

// RemoveCollectionItem drops one row from the caller's collection. Removal is
// idempotent; an unknown local id still answers ok.
func RemoveCollectionItem(deps CollectionDeps, kind collections.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, sink, err := deps.controllerFor(r, kind)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		defer ctrl.Close()

		ctrl.Remove(r.Context(), chi.URLParam(r, "localID"))
		responses.WriteSuccess(w, CollectionResponse{
			Items:    ctrl.Items(),
			Feedback: sink.drain(),
			OK:       true,
		})
	}
}

// ClearCollection empties the caller's collection.
func ClearCollection(deps CollectionDeps, kind collections.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, sink, err := deps.controllerFor(r, kind)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		defer ctrl.Close()

		ctrl.Clear(r.Context())
		responses.WriteSuccess(w, CollectionResponse{
			Items:    ctrl.Items(),
			Feedback: sink.drain(),
			OK:       true,
		})
	}
}
