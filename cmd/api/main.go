// Package main provides the entrypoint for the ondo API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ondolab/ondo/internal/api"
	"github.com/ondolab/ondo/internal/api/middleware"
	"github.com/ondolab/ondo/internal/api/models"
	"github.com/ondolab/ondo/internal/config"
	"github.com/ondolab/ondo/internal/geocode/kakao"
	"github.com/ondolab/ondo/internal/telemetry"
	"github.com/ondolab/ondo/internal/weather"
	"github.com/ondolab/ondo/internal/weather/kma"
	"github.com/ondolab/ondo/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "ondo-api"

	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting ondo API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	acquisitions, err := middleware.NewAcquisitionMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize acquisition metrics")
		os.Exit(1)
	}

	// Providers are optional; any missing key drops that rung off the
	// degradation ladder instead of failing startup.
	var primary weather.PrimaryProvider
	if cfg.KMAServiceKey != "" {
		primary = kma.NewClient(kma.ClientConfig{
			ServiceKey: cfg.KMAServiceKey,
			BaseURL:    cfg.KMABaseURL,
			Logger:     log,
		})
		log.Info().Str("provider", kma.ProviderName).Msg("primary weather source configured")
	} else {
		log.Warn().Msg("KMA_SERVICE_KEY not set - primary weather source disabled")
	}

	var secondary weather.SecondaryProvider
	if cfg.OpenWeatherAPIKey != "" {
		secondary = openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey: cfg.OpenWeatherAPIKey,
			Logger: log,
		})
		log.Info().Str("provider", openweathermap.ProviderName).Msg("secondary weather source configured")
	} else {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - secondary weather source disabled")
	}

	var geocoder weather.Geocoder
	if cfg.KakaoRESTKey != "" {
		geocoder = kakao.NewClient(kakao.ClientConfig{
			RESTKey: cfg.KakaoRESTKey,
			Logger:  log,
		})
		log.Info().Msg("reverse geocoding configured")
	} else {
		log.Warn().Msg("KAKAO_REST_KEY not set - place-name enrichment disabled")
	}

	store := weather.NewStore(cfg.CacheTTL)
	weatherService := weather.NewService(weather.ServiceConfig{
		Primary:          primary,
		Secondary:        secondary,
		Geocoder:         geocoder,
		Store:            store,
		Logger:           log,
		CurrentDeadline:  cfg.CurrentDeadline,
		ForecastDeadline: cfg.ForecastDeadline,
	})
	log.Info().
		Dur("cache_ttl", cfg.CacheTTL).
		Dur("current_deadline", cfg.CurrentDeadline).
		Dur("forecast_deadline", cfg.ForecastDeadline).
		Msg("weather service initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		Acquisitions:   acquisitions,
		WeatherService: weatherService,
		CacheAdmin:     weatherService,
		Providers: []models.ProviderStatus{
			{Provider: kma.ProviderName, Configured: primary != nil},
			{Provider: openweathermap.ProviderName, Configured: secondary != nil},
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
