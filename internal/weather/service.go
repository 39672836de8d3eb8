package weather

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ondolab/ondo/internal/geo"
	"github.com/ondolab/ondo/internal/geocode"
)

// PrimaryProvider is a grid-addressed weather source that serves both
// current conditions and short-range forecasts.
type PrimaryProvider interface {
	Name() string
	FetchCurrent(ctx context.Context, cell geo.Cell, lat, lon float64) (*Record, error)
	FetchForecast(ctx context.Context, cell geo.Cell, lat, lon float64) ([]ForecastSlot, error)
}

// SecondaryProvider is a coordinate-addressed backup source for current
// conditions only.
type SecondaryProvider interface {
	Name() string
	FetchCurrent(ctx context.Context, lat, lon float64) (*Record, error)
}

// Geocoder resolves coordinates into a named place. Implementations are
// best effort and return nil when nothing could be resolved.
type Geocoder interface {
	Resolve(ctx context.Context, lat, lon float64) *geocode.Place
}

const (
	defaultCurrentDeadline  = 10 * time.Second
	defaultForecastDeadline = 4 * time.Second
)

// ServiceConfig holds dependencies for the weather service.
type ServiceConfig struct {
	// Primary is the main weather source. May be nil when not configured.
	Primary PrimaryProvider

	// Secondary is the backup source for current conditions. May be nil.
	Secondary SecondaryProvider

	// Geocoder enriches records with place names. May be nil.
	Geocoder Geocoder

	// Store caches records and serves stale fallbacks.
	Store *Store

	// Logger for service operations.
	Logger zerolog.Logger

	// CurrentDeadline bounds a full current-conditions acquisition,
	// retries included. Defaults to 10s.
	CurrentDeadline time.Duration

	// ForecastDeadline bounds a forecast acquisition. Defaults to 4s.
	ForecastDeadline time.Duration

	// Now returns the current time, used by tests.
	Now func() time.Time
}

// Service acquires weather data through a degradation ladder: primary
// source, then secondary, then stale cache, then a static fallback. It
// never returns an error for a valid coordinate.
type Service struct {
	primary          PrimaryProvider
	secondary        SecondaryProvider
	geocoder         Geocoder
	store            *Store
	logger           zerolog.Logger
	currentDeadline  time.Duration
	forecastDeadline time.Duration
	now              func() time.Time
}

// NewService creates a weather service.
func NewService(cfg ServiceConfig) *Service {
	currentDeadline := cfg.CurrentDeadline
	if currentDeadline <= 0 {
		currentDeadline = defaultCurrentDeadline
	}
	forecastDeadline := cfg.ForecastDeadline
	if forecastDeadline <= 0 {
		forecastDeadline = defaultForecastDeadline
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	store := cfg.Store
	if store == nil {
		store = NewStore(DefaultCacheTTL)
	}

	return &Service{
		primary:          cfg.Primary,
		secondary:        cfg.Secondary,
		geocoder:         cfg.Geocoder,
		store:            store,
		logger:           cfg.Logger,
		currentDeadline:  currentDeadline,
		forecastDeadline: forecastDeadline,
		now:              now,
	}
}

// CurrentWeather returns current conditions for a coordinate. The result
// always carries a usable record: live data when a source answers, a
// cached record when none does, and a static fallback as the floor.
// Only invalid coordinates produce an error.
func (s *Service) CurrentWeather(ctx context.Context, lat, lon float64, force bool) (*Record, error) {
	if err := geo.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	cell := geo.Project(lat, lon)
	key := CacheKey(lat, lon, cell)

	if !force {
		if rec, ok := s.store.Get(key); ok {
			s.logger.Debug().Str("key", key).Msg("cache hit")
			return rec, nil
		}
	}

	if rec := s.fetchCurrent(ctx, cell, lat, lon); rec != nil {
		s.enrich(ctx, rec, lat, lon)
		s.store.Set(key, rec)
		return rec, nil
	}

	if rec, ok := s.store.GetStale(key); ok {
		s.logger.Warn().Str("key", key).Msg("all sources failed, serving stale cache")
		return rec, nil
	}

	s.logger.Warn().
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("all sources failed with no cached record, serving static fallback")
	return FallbackRecord(lat, lon, s.now()), nil
}

func (s *Service) fetchCurrent(ctx context.Context, cell geo.Cell, lat, lon float64) *Record {
	ctx, cancel := context.WithTimeout(ctx, s.currentDeadline)
	defer cancel()

	if s.primary != nil {
		rec, err := s.primary.FetchCurrent(ctx, cell, lat, lon)
		if err == nil {
			return rec
		}
		s.logger.Warn().Err(err).Str("provider", s.primary.Name()).Msg("primary source failed")
	}

	if s.secondary != nil {
		rec, err := s.secondary.FetchCurrent(ctx, lat, lon)
		if err == nil {
			return rec
		}
		s.logger.Warn().Err(err).Str("provider", s.secondary.Name()).Msg("secondary source failed")
	}

	return nil
}

// Forecast returns the short-range forecast for a coordinate. A total
// acquisition failure yields an empty slice, not an error; forecasts are
// an enrichment, not a guarantee.
func (s *Service) Forecast(ctx context.Context, lat, lon float64) ([]ForecastSlot, error) {
	if err := geo.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	cell := geo.Project(lat, lon)
	key := ForecastCacheKey(lat, lon, cell)

	if slots, ok := s.store.GetForecast(key); ok {
		s.logger.Debug().Str("key", key).Msg("forecast cache hit")
		return slots, nil
	}

	if s.primary == nil {
		return []ForecastSlot{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.forecastDeadline)
	defer cancel()

	slots, err := s.primary.FetchForecast(ctx, cell, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", s.primary.Name()).Msg("forecast acquisition failed")
		return []ForecastSlot{}, nil
	}

	s.store.SetForecast(key, slots)
	return slots, nil
}

// Bundle is a combined current-plus-forecast response.
type Bundle struct {
	Current  *Record        `json:"current"`
	Forecast []ForecastSlot `json:"forecast"`
}

// CurrentAndForecast acquires current conditions and the forecast
// concurrently. Forecast failure never degrades the current record.
func (s *Service) CurrentAndForecast(ctx context.Context, lat, lon float64, force bool) (*Bundle, error) {
	if err := geo.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	var (
		wg       sync.WaitGroup
		current  *Record
		forecast []ForecastSlot
		err      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, err = s.CurrentWeather(ctx, lat, lon, force)
	}()
	go func() {
		defer wg.Done()
		forecast, _ = s.Forecast(ctx, lat, lon)
	}()
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return &Bundle{Current: current, Forecast: forecast}, nil
}

func (s *Service) enrich(ctx context.Context, rec *Record, lat, lon float64) {
	if s.geocoder == nil {
		return
	}
	place := s.geocoder.Resolve(ctx, lat, lon)
	if place == nil {
		return
	}
	rec.Location.City = place.City
	rec.Location.District = place.District
	rec.Location.Province = place.Province
	rec.Location.Country = place.Country
}

// ClearCache evicts every cached record.
func (s *Service) ClearCache() int {
	return s.store.Clear()
}

// CacheStats reports cache occupancy.
func (s *Service) CacheStats() StoreStats {
	return s.store.Stats()
}
