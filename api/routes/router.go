package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relovedshop/reloved-backend/api/controllers"
	"github.com/relovedshop/reloved-backend/api/middleware"
	"github.com/relovedshop/reloved-backend/internal/auth"
	"github.com/relovedshop/reloved-backend/internal/catalog"
	checkoutsvc "github.com/relovedshop/reloved-backend/internal/checkout"
	"github.com/relovedshop/reloved-backend/internal/collections"
	"github.com/relovedshop/reloved-backend/internal/newsletter"
	"github.com/relovedshop/reloved-backend/internal/profiles"
	"github.com/relovedshop/reloved-backend/internal/submissions"
	"github.com/relovedshop/reloved-backend/pkg/auth/session"
	"github.com/relovedshop/reloved-backend/pkg/config"
	"github.com/relovedshop/reloved-backend/pkg/db"
	"github.com/relovedshop/reloved-backend/pkg/logger"
	"github.com/relovedshop/reloved-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config             *config.Config
	Logger             *logger.Logger
	DBPinger           db.Pinger
	RedisPinger        redis.Pinger
	SessionManager     session.AccessSessionChecker
	AuthService        auth.Service
	RegisterService    auth.RegisterService
	CatalogService     catalog.Service
	CheckoutService    checkoutsvc.Service
	ProfileService     profiles.Service
	NewsletterService  newsletter.Service
	SubmissionsService submissions.Service
	Collections        controllers.CollectionDeps
	MetricsRegistry    *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.RedisPinger))
	})

	if p.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(p.RegisterService, logg))
		r.Post("/login", controllers.Login(p.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(p.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, p.SessionManager, logg)).Post("/logout", controllers.Logout(p.AuthService, logg))
	})

	r.Route("/api/v1/listings", func(r chi.Router) {
		r.Get("/", controllers.ListListings(p.CatalogService, logg))
		r.Get("/{listingID}", controllers.GetListing(p.CatalogService, logg))
	})

	r.Route("/api/v1/newsletter", func(r chi.Router) {
		r.Post("/subscribe", controllers.SubscribeNewsletter(p.NewsletterService, logg))
		r.Post("/unsubscribe", controllers.UnsubscribeNewsletter(p.NewsletterService, logg))
	})

	// Cart, likes and checkout serve guests and signed-in users alike. The
	// guest token middleware guarantees every caller has a stable identity.
	r.Group(func(r chi.Router) {
		r.Use(
			middleware.OptionalAuth(cfg.JWT, p.SessionManager, logg),
			middleware.GuestToken(logg),
		)

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.ListCollection(p.Collections, collections.KindCart))
			r.Post("/", controllers.AddCollectionItem(p.Collections, collections.KindCart))
			r.Patch("/{localID}", controllers.SetCollectionQuantity(p.Collections))
			r.Delete("/{localID}", controllers.RemoveCollectionItem(p.Collections, collections.KindCart))
			r.Delete("/", controllers.ClearCollection(p.Collections, collections.KindCart))
		})

		r.Route("/api/v1/likes", func(r chi.Router) {
			r.Get("/", controllers.ListCollection(p.Collections, collections.KindLikes))
			r.Post("/", controllers.AddCollectionItem(p.Collections, collections.KindLikes))
			r.Delete("/{localID}", controllers.RemoveCollectionItem(p.Collections, collections.KindLikes))
			r.Delete("/", controllers.ClearCollection(p.Collections, collections.KindLikes))
		})

		r.Route("/api/v1/checkout", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(p.CheckoutService, logg))
			r.Get("/orders/{orderID}", controllers.GetOrder(p.CheckoutService, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

		r.Route("/api/v1/profile", func(r chi.Router) {
			r.Get("/", controllers.GetProfile(p.ProfileService, logg))
			r.Put("/", controllers.UpdateProfile(p.ProfileService, logg))
		})
		r.Get("/api/v1/orders", controllers.ListMyOrders(p.CheckoutService, logg))
		r.Route("/api/v1/submissions", func(r chi.Router) {
			r.Get("/", controllers.ListMySubmissions(p.SubmissionsService, logg))
			r.Post("/", controllers.CreateSubmission(p.SubmissionsService, logg))
		})
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, p.SessionManager, logg),
			middleware.RequireAdmin(logg),
		)
		r.Post("/listings", controllers.CreateListing(p.CatalogService, logg))
		r.Patch("/orders/{orderID}", controllers.UpdateOrderStatus(p.CheckoutService, logg))
		r.Patch("/submissions/{submissionID}", controllers.ReviewSubmission(p.SubmissionsService, logg))
	})

	return r
}
