package api

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/config"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/email"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/geocoding"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/handler"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/middleware"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/repository"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/service"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/signing"
)

// Dependencies are the collaborators the router wires into handlers
type Dependencies struct {
	Config   *config.Config
	DB       *sql.DB
	Logger   *slog.Logger
	Sender   email.Sender
	Geocoder geocoding.Geocoder
}

// Server is the configured engine plus the services background jobs need
type Server struct {
	Engine *gin.Engine
	Auth   *service.AuthService

	limiters []*middleware.RateLimiter
}

// Run prunes the rate limiters until ctx is done
func (s *Server) Run(ctx context.Context) {
	for _, l := range s.limiters {
		go l.Run(ctx)
	}
}

// SetupRouter builds the HTTP surface
func SetupRouter(deps Dependencies) *Server {
	cfg := deps.Config
	handler.RegisterValidators()

	// Repositories
	listingRepo := repository.NewListingRepository(deps.DB)
	userRepo := repository.NewUserRepository(deps.DB)
	sessionRepo := repository.NewSessionRepository(deps.DB)
	inquiryRepo := repository.NewInquiryRepository(deps.DB)

	// Services
	signer := signing.NewSigner(cfg.HMACSecret, cfg.SignatureMaxAge)
	listingService := service.NewListingService(listingRepo, userRepo, deps.Geocoder, signer)
	inquiryService := service.NewInquiryService(inquiryRepo, listingRepo, userRepo, deps.Sender, signer)
	mapService := service.NewMapService(listingRepo)
	authService := service.NewAuthService(userRepo, sessionRepo, deps.Sender, service.AuthConfig{
		SessionSecret: cfg.SessionSecret,
		MagicLinkTTL:  cfg.MagicLinkTTL,
		SessionTTL:    cfg.SessionTTL,
	})

	// Handlers
	listingHandler := handler.NewListingHandler(listingService)
	inquiryHandler := handler.NewInquiryHandler(inquiryService, cfg.BaseURL)
	mapHandler := handler.NewMapHandler(mapService)
	authHandler := handler.NewAuthHandler(authService, cfg.BaseURL)
	healthHandler := handler.NewHealthHandler(deps.DB)

	magicLinkLimiter := middleware.NewRateLimiter(5, 15*time.Minute)
	inquiryLimiter := middleware.NewRateLimiter(20, time.Hour)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Logger(deps.Logger),
		middleware.TLS(cfg.ApexDomain),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Session(authService),
	)

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/magic-link", middleware.RateLimit(magicLinkLimiter), authHandler.RequestMagicLink)
			auth.GET("/magic-link/verify", authHandler.VerifyMagicLink)
			auth.GET("/session", authHandler.Session)
			auth.POST("/sign-out", authHandler.SignOut)
		}

		listings := api.Group("/listings")
		{
			listings.GET("", listingHandler.Browse)
			listings.POST("", middleware.RequireAuth(), listingHandler.Create)
			listings.GET("/mine", middleware.RequireAuth(), listingHandler.Mine)
			listings.GET("/last-address", middleware.RequireAuth(), listingHandler.LastAddress)
			listings.GET("/:id", listingHandler.Get)
			listings.PATCH("/:id", middleware.RequireAuth(), listingHandler.UpdateStatus)
			listings.DELETE("/:id", middleware.RequireAuth(), listingHandler.Delete)
			listings.GET("/:id/unavailable", listingHandler.MarkUnavailable)
			listings.GET("/:id/area", mapHandler.ListingArea)
		}

		api.POST("/inquiries", middleware.RequireAuth(), middleware.RateLimit(inquiryLimiter), inquiryHandler.Create)

		maps := api.Group("/map")
		{
			maps.GET("/groups", mapHandler.Groups)
			maps.GET("/area", mapHandler.Area)
		}
	}

	return &Server{
		Engine:   r,
		Auth:     authService,
		limiters: []*middleware.RateLimiter{magicLinkLimiter, inquiryLimiter},
	}
}
