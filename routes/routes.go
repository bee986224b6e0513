package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/approov-authorizer/app"
	"github.com/upb/approov-authorizer/config"
	"github.com/upb/approov-authorizer/handlers"
	"github.com/upb/approov-authorizer/middleware"
)

// SetupRoutes configures the forward-auth routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout(deps.Config.Server)))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", deps.Config.Authorizer.TokenHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, handlers.SubjectHeader},
		MaxAge:         300,
	}))

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck())
	r.Get("/readyz", handlers.ReadinessCheck(deps))
	r.Handle("/metrics", deps.Metrics.Handler())

	// Forward-auth endpoint for nginx auth_request / Traefik ForwardAuth
	r.Route("/auth", func(r chi.Router) {
		r.Get("/verify", handlers.VerifyHandler(deps))
		r.Post("/verify", handlers.VerifyHandler(deps))
		r.Head("/verify", handlers.VerifyHandler(deps))

		// Echoes the verified claims; exercises the middleware path
		r.With(deps.ApproovAuth.RequireApproovToken).Get("/claims", handlers.ClaimsHandler())
	})

	return r
}

// defaultRequestTimeout bounds a request when no write timeout is configured
const defaultRequestTimeout = 5 * time.Second

// requestTimeout keeps handler deadlines within the server write timeout
func requestTimeout(cfg config.ServerConfig) time.Duration {
	if cfg.WriteTimeout > 0 {
		return cfg.WriteTimeout
	}
	return defaultRequestTimeout
}
