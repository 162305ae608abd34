package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/api/middleware"
	"github.com/relovedshop/reloved-backend/internal/catalog"
	"github.com/relovedshop/reloved-backend/internal/collections"
	"github.com/relovedshop/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedshop/reloved-backend/pkg/errors"
)

type stubCatalogService struct {
	listing *catalog.ListingDTO
	err     error
}

func (s stubCatalogService) List(ctx context.Context, input catalog.ListListingsInput) (*catalog.ListingPage, error) {
	return &catalog.ListingPage{}, nil
}

func (s stubCatalogService) Get(ctx context.Context, id uuid.UUID) (*catalog.ListingDTO, error) {
	return s.listing, s.err
}

func (s stubCatalogService) Create(ctx context.Context, req catalog.CreateListingRequest) (*catalog.ListingDTO, error) {
	return s.listing, s.err
}

// memStore is an in-memory collections.Store keyed by owner.
type memStore struct {
	mu    sync.Mutex
	rows  map[string][]collections.Item
	next  int
	fail  bool
	calls int
}

func newMemStore() *memStore {
	return &memStore{rows: map[string][]collections.Item{}}
}

func (s *memStore) key(owner collections.Owner) string {
	if owner.Authenticated() {
		return "u:" + owner.UserID.String()
	}
	return "g:" + owner.GuestToken
}

func (s *memStore) List(_ context.Context, owner collections.Owner) ([]collections.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]collections.Item(nil), s.rows[s.key(owner)]...), nil
}

func (s *memStore) Insert(_ context.Context, owner collections.Owner, item collections.Item) (collections.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return collections.Item{}, fmt.Errorf("backend down")
	}
	s.next++
	item.LocalID = fmt.Sprintf("row-%d", s.next)
	s.rows[s.key(owner)] = append(s.rows[s.key(owner)], item)
	return item, nil
}

func (s *memStore) Update(_ context.Context, owner collections.Owner, localID string, patch collections.Patch) (collections.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.rows[s.key(owner)]
	for i := range rows {
		if rows[i].LocalID == localID {
			if patch.Quantity != nil {
				rows[i].Quantity = *patch.Quantity
			}
			return rows[i], nil
		}
	}
	return collections.Item{}, collections.ErrNotFound
}

func (s *memStore) Remove(_ context.Context, owner collections.Owner, localID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(owner)
	rows := s.rows[key][:0]
	for _, row := range s.rows[key] {
		if row.LocalID != localID {
			rows = append(rows, row)
		}
	}
	s.rows[key] = rows
	return nil
}

func (s *memStore) Clear(_ context.Context, owner collections.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, s.key(owner))
	return nil
}

func testListing(id uuid.UUID) *catalog.ListingDTO {
	return &catalog.ListingDTO{
		ID:         id,
		Title:      "Wool overcoat",
		Brand:      "COS",
		PriceCents: 6200,
		Size:       "M",
		Condition:  enums.ConditionExcellent,
		ImageURL:   "https://img.example/overcoat.jpg",
	}
}

func collectionTestDeps(catalogSvc catalog.Service) (CollectionDeps, *memStore, *memStore) {
	guest := newMemStore()
	remote := newMemStore()
	return CollectionDeps{
		GuestCart:   guest,
		RemoteCart:  remote,
		GuestLikes:  newMemStore(),
		RemoteLikes: newMemStore(),
		Catalog:     catalogSvc,
		Logger:      nil,
	}, guest, remote
}

func guestRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithGuestToken(req.Context(), "guest-token-1"))
}

func decodeCollection(t *testing.T, resp *httptest.ResponseRecorder) CollectionResponse {
	t.Helper()
	var envelope struct {
		Data CollectionResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestAddCollectionItemGuestCart(t *testing.T) {
	listingID := uuid.New()
	deps, guest, _ := collectionTestDeps(stubCatalogService{listing: testListing(listingID)})

	handler := AddCollectionItem(deps, collections.KindCart)
	body := []byte(`{"listing_id":"` + listingID.String() + `"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	data := decodeCollection(t, resp)
	if !data.OK {
		t.Fatalf("expected ok=true got %+v", data)
	}
	if len(data.Items) != 1 || data.Items[0].Snapshot.Title != "Wool overcoat" {
		t.Fatalf("expected one item with snapshot got %+v", data.Items)
	}
	if len(data.Feedback) == 0 || data.Feedback[0].Severity != "neutral" {
		t.Fatalf("expected neutral feedback got %+v", data.Feedback)
	}
	if guest.calls != 1 {
		t.Fatalf("expected one guest insert got %d", guest.calls)
	}
}

func TestAddCollectionItemAuthenticatedUsesRemote(t *testing.T) {
	listingID := uuid.New()
	deps, guest, remote := collectionTestDeps(stubCatalogService{listing: testListing(listingID)})

	handler := AddCollectionItem(deps, collections.KindCart)
	body := []byte(`{"listing_id":"` + listingID.String() + `"}`)
	req := guestRequest(http.MethodPost, "/api/v1/cart", body)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if guest.calls != 0 {
		t.Fatalf("guest store should be untouched, got %d inserts", guest.calls)
	}
	if remote.calls != 1 {
		t.Fatalf("expected one remote insert got %d", remote.calls)
	}
}

func TestAddCollectionItemSoldListingConflicts(t *testing.T) {
	listingID := uuid.New()
	listing := testListing(listingID)
	listing.Sold = true
	deps, guest, _ := collectionTestDeps(stubCatalogService{listing: listing})

	handler := AddCollectionItem(deps, collections.KindCart)
	body := []byte(`{"listing_id":"` + listingID.String() + `"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if guest.calls != 0 {
		t.Fatalf("sold listing must not reach the store, got %d inserts", guest.calls)
	}
}

func TestAddCollectionItemBackendFailureReturnsFeedback(t *testing.T) {
	listingID := uuid.New()
	deps, guest, _ := collectionTestDeps(stubCatalogService{listing: testListing(listingID)})
	guest.fail = true

	handler := AddCollectionItem(deps, collections.KindCart)
	body := []byte(`{"listing_id":"` + listingID.String() + `"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart", body))

	// Persistence failures travel as feedback, not as HTTP errors.
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	data := decodeCollection(t, resp)
	if data.OK {
		t.Fatalf("expected ok=false got %+v", data)
	}
	found := false
	for _, fb := range data.Feedback {
		if fb.Severity == "destructive" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected destructive feedback got %+v", data.Feedback)
	}
}

func TestAddCollectionItemUnknownListing(t *testing.T) {
	deps, _, _ := collectionTestDeps(stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")})

	handler := AddCollectionItem(deps, collections.KindCart)
	body := []byte(`{"listing_id":"` + uuid.NewString() + `"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestListCollectionEmptyForNewGuest(t *testing.T) {
	deps, _, _ := collectionTestDeps(stubCatalogService{})

	handler := ListCollection(deps, collections.KindLikes)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, guestRequest(http.MethodGet, "/api/v1/likes", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	data := decodeCollection(t, resp)
	if len(data.Items) != 0 {
		t.Fatalf("expected empty list got %+v", data.Items)
	}
}

func TestListCollectionMissingIdentity(t *testing.T) {
	deps, _, _ := collectionTestDeps(stubCatalogService{})

	handler := ListCollection(deps, collections.KindCart)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
