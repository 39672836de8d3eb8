// Package openweathermap is the secondary weather source: a lower-fidelity
// generic provider used only when the primary is unavailable or
// unconfigured. Single attempt, single timeout, no stepback.
package openweathermap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ondolab/ondo/internal/provider/resilience"
	"github.com/ondolab/ondo/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	requestTimeout = 8 * time.Second
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("openweathermap: api key not configured")

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key.
	APIKey string

	// BaseURL overrides the API base URL, used by tests.
	BaseURL string

	// HTTPClient is the transport. If nil, a circuit-breaker client with
	// the single-attempt timeout is used.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = requestTimeout
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchCurrent fetches current conditions for a coordinate.
func (c *Client) FetchCurrent(ctx context.Context, lat, lon float64) (*weather.Record, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	url := fmt.Sprintf("%s/weather?lat=%.6f&lon=%.6f&appid=%s&units=metric",
		c.baseURL, lat, lon, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var owmResp currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toRecord(&owmResp, lat, lon), nil
}

// toRecord normalizes the provider payload into the canonical record.
func (c *Client) toRecord(resp *currentWeatherResponse, lat, lon float64) *weather.Record {
	rec := &weather.Record{
		Timestamp:     time.Unix(resp.Dt, 0),
		Temperature:   weather.Float(weather.RoundTemp(resp.Main.Temp)),
		FeelsLike:     weather.Float(weather.RoundTemp(resp.Main.FeelsLike)),
		Humidity:      resp.Main.Humidity,
		WindSpeed:     resp.Wind.Speed,
		WindDirection: resp.Wind.Deg,
		Location:      weather.Location{Lat: lat, Lon: lon},
		Source:        weather.SourceSecondary,
	}

	// Rain wins over snow when the provider reports both.
	switch {
	case resp.Rain.OneHour > 0:
		rec.Precipitation = resp.Rain.OneHour
	case resp.Snow.OneHour > 0:
		rec.Precipitation = resp.Snow.OneHour
	}

	desc := ""
	if len(resp.Weather) > 0 {
		rec.Condition = weather.ConditionFromOWM(resp.Weather[0].Main)
		desc = resp.Weather[0].Description
	} else {
		rec.Condition = weather.ConditionUnknown
	}
	rec.Description = weather.DescriptionOrCondition(desc, rec.Condition)

	sunrise, sunset := weather.DefaultSunrise, weather.DefaultSunset
	if resp.Sys.Sunrise > 0 {
		sunrise = time.Unix(resp.Sys.Sunrise, 0).In(weather.KST).Hour()
	}
	if resp.Sys.Sunset > 0 {
		sunset = time.Unix(resp.Sys.Sunset, 0).In(weather.KST).Hour()
	}
	rec.Icon = weather.IconFor(rec.Timestamp.In(weather.KST).Hour(), rec.Condition, sunrise, sunset)

	return rec
}

// OpenWeatherMap API response structure.

type currentWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Snow struct {
		OneHour float64 `json:"1h"`
	} `json:"snow"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
}
