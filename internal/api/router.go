// Package api provides the HTTP API for the ondo weather service.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ondolab/ondo/internal/api/handler"
	"github.com/ondolab/ondo/internal/api/middleware"
	"github.com/ondolab/ondo/internal/api/models"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	ServiceName    string
	Metrics        *middleware.Metrics
	Acquisitions   *middleware.AcquisitionMetrics
	WeatherService handler.WeatherService
	CacheAdmin     handler.CacheAdmin
	Providers      []models.ProviderStatus
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "ondo-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	weatherHandler := handler.NewWeatherHandler(cfg.WeatherService, cfg.Acquisitions)
	recommendHandler := handler.NewRecommendHandler(cfg.WeatherService)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.CacheAdmin, cfg.Providers)

	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		// Weather endpoints fan out to upstream providers, so rate
		// limiting is strict.
		r.Route("/weather", func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Get("/", weatherHandler.Bundle)
			r.Get("/current", weatherHandler.Current)
			r.Get("/forecast", weatherHandler.Forecast)
		})

		r.With(expensiveRateLimit).Get("/recommendations", recommendHandler.Outfit)

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.With(standardRateLimit).Get("/cache", opsHandler.CacheStats)
			r.With(standardRateLimit).Delete("/cache", opsHandler.ClearCache)
		})
	})

	return r
}
