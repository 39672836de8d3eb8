// Package weather provides the canonical weather record, the time-bounded
// cache, and the orchestration that turns provider payloads into records the
// rest of the service consumes.
package weather

import (
	"errors"
	"time"

	"github.com/ondolab/ondo/internal/geo"
)

// Weather errors.
var (
	// ErrInvalidCoordinates is surfaced to callers for out-of-domain input.
	ErrInvalidCoordinates = geo.ErrInvalidCoordinates

	// ErrAllSourcesExhausted signals that every live source failed. It never
	// leaves the orchestrator; the degradation ladder absorbs it.
	ErrAllSourcesExhausted = errors.New("all weather sources exhausted")
)

// Condition is the canonical weather condition. Every provider code is
// mapped onto one of these values, with ConditionUnknown as the default.
type Condition string

const (
	ConditionClear        Condition = "CLEAR"
	ConditionClouds       Condition = "CLOUDS"
	ConditionRain         Condition = "RAIN"
	ConditionSnow         Condition = "SNOW"
	ConditionThunderstorm Condition = "THUNDERSTORM"
	ConditionDrizzle      Condition = "DRIZZLE"
	ConditionOvercast     Condition = "OVERCAST"
	ConditionUnknown      Condition = "UNKNOWN"
)

// Source tags which step of the degradation ladder produced a record.
type Source string

const (
	SourcePrimary   Source = "PRIMARY"
	SourceSecondary Source = "SECONDARY"
	SourceCache     Source = "CACHE"
	SourceFallback  Source = "FALLBACK"
)

// Location is the coordinate a record was produced for, plus the optional
// place-name fields filled in by reverse-geocoding enrichment.
type Location struct {
	Lat      float64
	Lon      float64
	City     string
	District string
	Province string
	Country  string
}

// Record is the canonical weather record exchanged at the system boundary.
// Temperature and FeelsLike are pointers because providers may omit them;
// every other field defaults to its zero value when undetermined.
type Record struct {
	Timestamp     time.Time
	Temperature   *float64 // °C, rounded to whole degrees
	FeelsLike     *float64 // °C, defaults to Temperature when not supplied
	Humidity      float64  // percent, 0-100
	WindSpeed     float64  // m/s
	WindDirection float64  // degrees, 0-359
	Precipitation float64  // mm, >= 0
	Condition     Condition
	Description   string // defaults to the condition when the provider has none
	Icon          string // day/night icon code
	Location      Location
	Source        Source
	Cached        bool
}

// ForecastSlot is one entry of a short-range forecast, sampled on the fixed
// three-hour interval.
type ForecastSlot struct {
	Timestamp     time.Time
	Temperature   *float64
	Humidity      float64
	WindSpeed     float64
	Precipitation float64
	PrecipProb    float64 // percent, 0-100
	Condition     Condition
	Description   string
	Icon          string
}

// ForecastInterval is the fixed sampling interval for forecast slots.
const ForecastInterval = 3 * time.Hour

// MaxForecastSlots bounds the number of slots returned.
const MaxForecastSlots = 8

// KST is the provider-native timezone. Base times and forecast slots are
// aligned to it.
var KST = time.FixedZone("KST", 9*60*60)

// Float returns a pointer to v. Convenience for the nullable record fields.
func Float(v float64) *float64 {
	return &v
}

// Fallback sentinel values, served when every source including the cache has
// failed. Mild clear weather keeps the downstream recommendation usable
// rather than failing the request.
const (
	fallbackTemperature = 22.0
	fallbackHumidity    = 50.0
)

// FallbackRecord returns the static record served when the whole degradation
// ladder is exhausted. Source is SourceFallback and Cached is always false.
func FallbackRecord(lat, lon float64, now time.Time) *Record {
	return &Record{
		Timestamp:   now,
		Temperature: Float(fallbackTemperature),
		FeelsLike:   Float(fallbackTemperature),
		Humidity:    fallbackHumidity,
		Condition:   ConditionClear,
		Description: string(ConditionClear),
		Icon:        IconFor(now.In(KST).Hour(), ConditionClear, DefaultSunrise, DefaultSunset),
		Location:    Location{Lat: lat, Lon: lon},
		Source:      SourceFallback,
		Cached:      false,
	}
}
