package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/relovedshop/reloved-backend/api/controllers"
	"github.com/relovedshop/reloved-backend/api/routes"
	"github.com/relovedshop/reloved-backend/internal/auth"
	"github.com/relovedshop/reloved-backend/internal/catalog"
	checkoutsvc "github.com/relovedshop/reloved-backend/internal/checkout"
	"github.com/relovedshop/reloved-backend/internal/collections"
	"github.com/relovedshop/reloved-backend/internal/newsletter"
	"github.com/relovedshop/reloved-backend/internal/profiles"
	"github.com/relovedshop/reloved-backend/internal/submissions"
	"github.com/relovedshop/reloved-backend/internal/users"
	"github.com/relovedshop/reloved-backend/pkg/auth/session"
	"github.com/relovedshop/reloved-backend/pkg/config"
	"github.com/relovedshop/reloved-backend/pkg/db"
	"github.com/relovedshop/reloved-backend/pkg/logger"
	"github.com/relovedshop/reloved-backend/pkg/mailer"
	"github.com/relovedshop/reloved-backend/pkg/metrics"
	"github.com/relovedshop/reloved-backend/pkg/migrate"
	"github.com/relovedshop/reloved-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	mailerClient, err := mailer.NewClient(cfg.Mailer)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collectionMetrics := metrics.NewCollectionMetrics(registry)

	guestCart, err := collections.NewGuestStore(collections.KindCart, redisClient, redis.IsNil, cfg.Guest.CollectionTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build guest cart store", err)
		os.Exit(1)
	}
	guestLikes, err := collections.NewGuestStore(collections.KindLikes, redisClient, redis.IsNil, cfg.Guest.CollectionTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build guest likes store", err)
		os.Exit(1)
	}
	remoteCart, err := collections.NewRemoteStore(collections.KindCart, dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to build remote cart store", err)
		os.Exit(1)
	}
	remoteLikes, err := collections.NewRemoteStore(collections.KindLikes, dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to build remote likes store", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		SessionManager: sessionManager,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo: catalog.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		DB:         dbClient,
		GuestCart:  guestCart,
		RemoteCart: remoteCart,
		Mailer:     mailerClient,
		Logger:     logg,
		App:        cfg.App,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	profileService, err := profiles.NewService(profiles.ServiceParams{DB: dbClient.DB()})
	if err != nil {
		logg.Error(context.Background(), "failed to create profiles service", err)
		os.Exit(1)
	}

	newsletterService, err := newsletter.NewService(newsletter.ServiceParams{DB: dbClient.DB()})
	if err != nil {
		logg.Error(context.Background(), "failed to create newsletter service", err)
		os.Exit(1)
	}

	submissionsService, err := submissions.NewService(submissions.ServiceParams{DB: dbClient.DB()})
	if err != nil {
		logg.Error(context.Background(), "failed to create submissions service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:             cfg,
		Logger:             logg,
		DBPinger:           dbClient,
		RedisPinger:        redisClient,
		SessionManager:     sessionManager,
		AuthService:        authService,
		RegisterService:    registerService,
		CatalogService:     catalogService,
		CheckoutService:    checkoutService,
		ProfileService:     profileService,
		NewsletterService:  newsletterService,
		SubmissionsService: submissionsService,
		Collections: controllers.CollectionDeps{
			GuestCart:   guestCart,
			RemoteCart:  remoteCart,
			GuestLikes:  guestLikes,
			RemoteLikes: remoteLikes,
			Catalog:     catalogService,
			Metrics:     collectionMetrics,
			Logger:      logg,
		},
		MetricsRegistry: registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
