package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/api/controllers"
	"github.com/relovedshop/reloved-backend/internal/auth"
	"github.com/relovedshop/reloved-backend/internal/catalog"
	checkoutsvc "github.com/relovedshop/reloved-backend/internal/checkout"
	"github.com/relovedshop/reloved-backend/internal/collections"
	"github.com/relovedshop/reloved-backend/internal/newsletter"
	"github.com/relovedshop/reloved-backend/internal/profiles"
	"github.com/relovedshop/reloved-backend/internal/submissions"
	"github.com/relovedshop/reloved-backend/pkg/config"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.SessionResponse, error) {
	return &auth.SessionResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.SessionResponse, error) {
	return &auth.SessionResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.SessionResponse, error) {
	return &auth.SessionResponse{}, nil
}

type routerCatalogService struct{}

func (routerCatalogService) List(ctx context.Context, input catalog.ListListingsInput) (*catalog.ListingPage, error) {
	return &catalog.ListingPage{Listings: []catalog.ListingDTO{}}, nil
}

func (routerCatalogService) Get(ctx context.Context, id uuid.UUID) (*catalog.ListingDTO, error) {
	return &catalog.ListingDTO{ID: id}, nil
}

func (routerCatalogService) Create(ctx context.Context, req catalog.CreateListingRequest) (*catalog.ListingDTO, error) {
	return &catalog.ListingDTO{}, nil
}

type routerCheckoutService struct{}

func (routerCheckoutService) PlaceOrder(ctx context.Context, owner collections.Owner, req checkoutsvc.PlaceOrderRequest) (*checkoutsvc.OrderDTO, error) {
	return &checkoutsvc.OrderDTO{}, nil
}

func (routerCheckoutService) Get(ctx context.Context, id uuid.UUID) (*checkoutsvc.OrderDTO, error) {
	return &checkoutsvc.OrderDTO{ID: id}, nil
}

func (routerCheckoutService) ListByUser(ctx context.Context, userID uuid.UUID) ([]checkoutsvc.OrderDTO, error) {
	return nil, nil
}

func (routerCheckoutService) UpdateStatus(ctx context.Context, id uuid.UUID, req checkoutsvc.UpdateStatusRequest) (*checkoutsvc.OrderDTO, error) {
	return &checkoutsvc.OrderDTO{}, nil
}

type routerProfileService struct{}

func (routerProfileService) Get(ctx context.Context, userID uuid.UUID) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{UserID: userID}, nil
}

func (routerProfileService) Update(ctx context.Context, userID uuid.UUID, req profiles.UpdateProfileRequest) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{UserID: userID}, nil
}

type routerNewsletterService struct{}

func (routerNewsletterService) Subscribe(ctx context.Context, req newsletter.SubscribeRequest) error {
	return nil
}

func (routerNewsletterService) Unsubscribe(ctx context.Context, email string) error {
	return nil
}

type routerSubmissionsService struct{}

func (routerSubmissionsService) Create(ctx context.Context, userID uuid.UUID, req submissions.CreateSubmissionRequest) (*submissions.SubmissionDTO, error) {
	return &submissions.SubmissionDTO{}, nil
}

func (routerSubmissionsService) ListByUser(ctx context.Context, userID uuid.UUID) ([]submissions.SubmissionDTO, error) {
	return nil, nil
}

func (routerSubmissionsService) Review(ctx context.Context, id uuid.UUID, req submissions.ReviewRequest) (*submissions.SubmissionDTO, error) {
	return &submissions.SubmissionDTO{}, nil
}

type routerMemStore struct{}

func (routerMemStore) List(ctx context.Context, owner collections.Owner) ([]collections.Item, error) {
	return nil, nil
}

func (routerMemStore) Insert(ctx context.Context, owner collections.Owner, item collections.Item) (collections.Item, error) {
	item.LocalID = "row-1"
	return item, nil
}

func (routerMemStore) Update(ctx context.Context, owner collections.Owner, localID string, patch collections.Patch) (collections.Item, error) {
	return collections.Item{}, collections.ErrNotFound
}

func (routerMemStore) Remove(ctx context.Context, owner collections.Owner, localID string) error {
	return nil
}

func (routerMemStore) Clear(ctx context.Context, owner collections.Owner) error {
	return nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "reloved", ExpirationMinutes: 30},
	}
	return NewRouter(RouterParams{
		Config:             cfg,
		Logger:             nil,
		SessionManager:     stubSessionChecker{},
		AuthService:        stubAuthService{},
		RegisterService:    stubRegisterService{},
		CatalogService:     routerCatalogService{},
		CheckoutService:    routerCheckoutService{},
		ProfileService:     routerProfileService{},
		NewsletterService:  routerNewsletterService{},
		SubmissionsService: routerSubmissionsService{},
		Collections: controllers.CollectionDeps{
			GuestCart:   routerMemStore{},
			RemoteCart:  routerMemStore{},
			GuestLikes:  routerMemStore{},
			RemoteLikes: routerMemStore{},
			Catalog:     routerCatalogService{},
		},
	})
}

func TestHealthLiveRoute(t *testing.T) {
	router := newTestRouter()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestListingsRouteIsPublic(t *testing.T) {
	router := newTestRouter()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRouteMintsGuestToken(t *testing.T) {
	router := newTestRouter()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	token := resp.Header().Get("X-Guest-Token")
	if token == "" {
		t.Fatal("expected minted guest token header")
	}
	if _, err := uuid.Parse(token); err != nil {
		t.Fatalf("expected uuid guest token got %q", token)
	}

	var envelope struct {
		Data controllers.CollectionResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 0 {
		t.Fatalf("expected empty cart got %+v", envelope.Data.Items)
	}
}

func TestCartRouteRejectsBrokenCredential(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestProfileRouteRequiresAuth(t *testing.T) {
	router := newTestRouter()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminRouteRequiresAdminRole(t *testing.T) {
	router := newTestRouter()
	body := strings.NewReader(`{"status":"payment_sent"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/orders/"+uuid.NewString(), body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
