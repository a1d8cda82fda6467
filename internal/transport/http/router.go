package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/multiyo/banner-admin-api/internal/application/auth"
	bannerapp "github.com/multiyo/banner-admin-api/internal/application/banner"
	collectionapp "github.com/multiyo/banner-admin-api/internal/application/collection"
	"github.com/multiyo/banner-admin-api/internal/config"
	"github.com/multiyo/banner-admin-api/internal/transport/http/handler"
	appmiddleware "github.com/multiyo/banner-admin-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10, on the public login endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(cfg.AdminEmails, deps.OTPRepo, deps.Mailer, deps.JWTProvider, auth.Config{
		CodeLength:  cfg.OTPLength,
		TTL:         cfg.OTPTTL,
		MaxAttempts: cfg.OTPMaxAttempts,
	})
	bannerSvc := bannerapp.NewService(deps.BannerRepo, deps.S3Store, deps.Shopify, deps.EventPublisher)
	collectionSvc := collectionapp.NewService(deps.Shopify)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, deps.JWTProvider)
	bannerH := handler.NewBannerHandler(bannerSvc)
	collectionH := handler.NewCollectionHandler(collectionSvc)

	// ── Public routes (no auth) ──────────────────────────────────────────
	r.Get("/health-check", healthH.Ping)
	r.With(sensitiveRL.Limit).Post("/auth/request-otp", authH.RequestOTP)
	r.With(sensitiveRL.Limit).Post("/auth/verify-otp", authH.VerifyOTP)
	r.Post("/auth/verify-token", authH.VerifyToken)

	// ── Authenticated routes ─────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Get("/banners", bannerH.List)
		r.Post("/banners", bannerH.Upload)
		r.Put("/banners/{id}", bannerH.Replace)
		r.Delete("/banners/{id}", bannerH.Delete)
		r.Get("/collections", collectionH.List)
	})

	return r
}
