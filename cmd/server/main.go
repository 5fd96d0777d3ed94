package main

// @title           Reading Service API
// @version         1.0
// @description     Card reading backend: profiles, token balances, subscriptions and realtime balance updates
// @BasePath        /
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "reading-service/docs"
	"reading-service/internal/adapters/kafka"
	"reading-service/internal/api/routes"
	"reading-service/internal/auth"
	"reading-service/internal/config"
	"reading-service/internal/database"
	"reading-service/internal/metrics"
	"reading-service/internal/repositories/postgres"
	"reading-service/internal/services"
	"reading-service/internal/websocket"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("Starting reading service", "env", cfg.Env)

	db, err := database.NewPostgresConnection(cfg.Database.URL)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	verifier, err := auth.NewClerkVerifier(auth.VerifierConfig{
		PublicKeyPEM:      cfg.Clerk.JWTPublicKey,
		AuthorizedParties: cfg.FrontendURLs,
		DevUserID:         cfg.Clerk.DevUserID,
		DevMode:           cfg.IsDevelopment(),
	})
	if err != nil {
		slog.Error("Failed to initialise token verifier", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	packageRepo := postgres.NewPackageRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	paymentAccountRepo := postgres.NewPaymentAccountRepository(db)
	artistRepo := postgres.NewArtistRepository(db)

	deps := routes.Dependencies{
		Verifier:            verifier,
		Metrics:             m,
		Logger:              logger,
		AllowedOrigins:      cfg.FrontendURLs,
		HealthSecret:        cfg.Health.Secret,
		ClerkWebhookSecret:  cfg.Clerk.WebhookSecret,
		StripeWebhookSecret: cfg.Stripe.WebhookSecret,
		ReleaseMode:         cfg.Env == config.EnvProduction,
	}

	hubOpts := []websocket.Option{websocket.WithObserver(m)}

	// Redis is optional: it adds rate limiting and cross-instance fan-out
	if cfg.Redis.Enabled() {
		redisClient, err := database.NewRedisConnection(cfg.Redis)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		redisService := services.NewRedisService(redisClient)
		deps.RateLimiter = redisService
		hubOpts = append(hubOpts, websocket.WithRelay(redisService))
	} else {
		slog.Warn("REDIS_URL not set, balance updates stay local to this instance")
	}

	var events services.BalanceEventPublisher = services.NoopBalanceEventPublisher{}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.InitKafkaProducer(cfg.Kafka.Brokers, "reading-service")
		if err != nil {
			slog.Error("Failed to create Kafka producer", "error", err)
			os.Exit(1)
		}
		balanceEvents := kafka.NewBalanceEventProducer(producer, cfg.Kafka.BalanceTopic)
		defer balanceEvents.Close()
		events = balanceEvents
		slog.Info("Publishing balance events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.BalanceTopic)
	}

	hub := websocket.NewHub(services.NewBalanceLookup(userRepo), verifier, hubOpts...)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	// Services
	tokenService := services.NewTokenService(userRepo, hub, events)
	subscriptionService := services.NewSubscriptionService(packageRepo, subscriptionRepo)

	deps.Hub = hub
	deps.Profiles = services.NewProfileService(userRepo)
	deps.Tokens = tokenService
	deps.Subscriptions = subscriptionService
	deps.Artists = services.NewArtistService(artistRepo)
	deps.Testing = services.NewTestingService(userRepo, hub, events)
	deps.ClerkEvents = services.NewClerkWebhookService(userRepo)
	deps.Checkout = services.NewPaymentWebhookService(paymentAccountRepo, postgres.NewCheckoutRepository(db), tokenService, subscriptionService)

	router := routes.NewRouter(deps)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Close websockets first; hijacked connections are not drained by Shutdown
	stopHub()
	hub.Stop()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.Env == config.EnvProduction {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
