// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration. Provider keys are optional:
// a source with no key is simply not configured and the degradation ladder
// skips it.
type Config struct {
	Port        string `envconfig:"APP_PORT" default:"8080"`
	Environment string `envconfig:"APP_ENV" default:"development"`

	KMAServiceKey     string `envconfig:"KMA_SERVICE_KEY"`
	KMABaseURL        string `envconfig:"KMA_BASE_URL"`
	OpenWeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY"`
	KakaoRESTKey      string `envconfig:"KAKAO_REST_KEY"`

	CacheTTL         time.Duration `envconfig:"WEATHER_CACHE_TTL" default:"5m"`
	CurrentDeadline  time.Duration `envconfig:"WEATHER_CURRENT_DEADLINE" default:"10s"`
	ForecastDeadline time.Duration `envconfig:"WEATHER_FORECAST_DEADLINE" default:"4s"`

	OTLPEndpoint     string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	TelemetryEnabled bool   `envconfig:"OTEL_ENABLED" default:"false"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
