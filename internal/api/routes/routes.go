package routes

import (
	"log/slog"
	"time"

	"reading-service/internal/api/handlers"
	"reading-service/internal/api/middleware"
	"reading-service/internal/metrics"
	"reading-service/internal/websocket"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the wired services the router exposes over HTTP.
type Dependencies struct {
	Verifier      middleware.SessionVerifier
	Profiles      handlers.ProfileGetter
	Tokens        handlers.TokenManager
	Subscriptions handlers.SubscriptionCanceller
	Artists       handlers.ArtistGetter
	Testing       handlers.ReadingResetter
	ClerkEvents   handlers.ClerkEventHandler
	Checkout      handlers.CheckoutHandler
	Hub           *websocket.Hub

	// RateLimiter is optional; routes are unlimited without it.
	RateLimiter middleware.RateLimiter
	Metrics     *metrics.Metrics
	Logger      *slog.Logger

	AllowedOrigins      []string
	HealthSecret        string
	ClerkWebhookSecret  string
	StripeWebhookSecret string
	ReleaseMode         bool
}

type Router struct {
	engine *gin.Engine
	deps   Dependencies

	appHandler          *handlers.AppHandler
	profileHandler      *handlers.ProfileHandler
	tokenHandler        *handlers.TokenHandler
	subscriptionHandler *handlers.SubscriptionHandler
	artistHandler       *handlers.ArtistHandler
	testingHandler      *handlers.TestingHandler
	clerkHandler        *handlers.ClerkWebhookHandler
	stripeHandler       *handlers.StripeWebhookHandler
	wsHandler           *handlers.WSHandler
	authMW              *middleware.AuthMiddleware
	rateLimitMW         *middleware.RateLimitMiddleware
}

func NewRouter(deps Dependencies) *Router {
	if deps.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(deps.AllowedOrigins))
	if deps.ReleaseMode {
		engine.Use(middleware.StructuredLogger(deps.Logger))
	} else {
		engine.Use(middleware.LogApi())
	}
	if deps.Metrics != nil {
		engine.Use(deps.Metrics.GinMiddleware())
	}

	r := &Router{
		engine:              engine,
		deps:                deps,
		appHandler:          handlers.NewAppHandler(deps.HealthSecret),
		profileHandler:      handlers.NewProfileHandler(deps.Profiles),
		tokenHandler:        handlers.NewTokenHandler(deps.Tokens),
		subscriptionHandler: handlers.NewSubscriptionHandler(deps.Subscriptions),
		artistHandler:       handlers.NewArtistHandler(deps.Artists),
		testingHandler:      handlers.NewTestingHandler(deps.Testing),
		clerkHandler:        handlers.NewClerkWebhookHandler(deps.ClerkEvents),
		stripeHandler:       handlers.NewStripeWebhookHandler(deps.Checkout, deps.StripeWebhookSecret),
		authMW:              middleware.NewAuthMiddleware(deps.Verifier),
	}
	if deps.Hub != nil {
		r.wsHandler = handlers.NewWSHandler(deps.Hub, deps.AllowedOrigins)
	}
	if deps.RateLimiter != nil {
		r.rateLimitMW = middleware.NewRateLimitMiddleware(deps.RateLimiter)
	}
	return r
}

func (r *Router) perUser(requests int, window time.Duration) gin.HandlerFunc {
	if r.rateLimitMW == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return r.rateLimitMW.RateLimit(requests, window)
}

func (r *Router) perIP(requests int, window time.Duration) gin.HandlerFunc {
	if r.rateLimitMW == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return r.rateLimitMW.RateLimitIP(requests, window)
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/", r.appHandler.GetHello)
	r.engine.GET("/health", r.perIP(30, time.Minute), r.appHandler.CheckHealth)
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if r.deps.Metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.deps.Metrics.Handler()))
	}

	if r.wsHandler != nil {
		ws := []gin.HandlerFunc{r.wsHandler.HandleWebSocket}
		if r.rateLimitMW != nil {
			ws = append([]gin.HandlerFunc{r.rateLimitMW.WebSocketRateLimit(20, time.Minute)}, ws...)
		}
		r.engine.GET("/token-balance", ws...)
	}

	// Webhooks verify their own signatures over the raw body
	clerkGuard := middleware.ClerkWebhookGuard(r.deps.ClerkWebhookSecret)
	r.engine.POST("/clerk-webhook", clerkGuard, r.clerkHandler.HandleClerkWebhook)
	r.engine.POST("/users/webhook/clerk", clerkGuard, r.clerkHandler.HandleClerkWebhook)
	r.engine.POST("/payments/webhook/stripe", r.stripeHandler.HandleStripeWebhook)

	auth := r.engine.Group("/")
	auth.Use(r.authMW.RequireAuth())
	auth.Use(r.perUser(100, time.Minute))
	{
		auth.GET("/protected", r.appHandler.GetProtected)
		auth.GET("/profile", r.profileHandler.GetProfile)

		tokens := auth.Group("/tokens")
		{
			tokens.GET("/balance", r.tokenHandler.GetBalance)
			tokens.PATCH("/balance", r.tokenHandler.SetBalance)
		}

		auth.POST("/subscriptions/cancel", r.subscriptionHandler.Cancel)
		auth.GET("/artist/:id", r.artistHandler.GetArtist)
		auth.POST("/testing/reset-readings", r.testingHandler.ResetReadings)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
