// Package models defines the request and response payloads of the ondo API.
package models

import (
	"time"

	"github.com/ondolab/ondo/internal/weather"
)

// LocationPayload is the coordinate and resolved place of a weather response.
type LocationPayload struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city,omitempty"`
	District string  `json:"district,omitempty"`
	Province string  `json:"province,omitempty"`
	Country  string  `json:"country,omitempty"`
}

// CurrentWeather is the wire form of a canonical weather record.
type CurrentWeather struct {
	Timestamp     time.Time       `json:"timestamp"`
	Temperature   *float64        `json:"temperature"`
	FeelsLike     *float64        `json:"feels_like"`
	Humidity      float64         `json:"humidity"`
	WindSpeed     float64         `json:"wind_speed"`
	WindDirection float64         `json:"wind_direction"`
	Precipitation float64         `json:"precipitation"`
	Condition     string          `json:"condition"`
	Description   string          `json:"description"`
	Icon          string          `json:"icon"`
	Location      LocationPayload `json:"location"`
	Source        string          `json:"source"`
	Cached        bool            `json:"cached"`
}

// ForecastEntry is one slot of the short-range forecast.
type ForecastEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Temperature   *float64  `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	WindSpeed     float64   `json:"wind_speed"`
	Precipitation float64   `json:"precipitation"`
	PrecipProb    float64   `json:"precip_prob"`
	Condition     string    `json:"condition"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
}

// ForecastResponse wraps the forecast slots.
type ForecastResponse struct {
	Forecast []ForecastEntry `json:"forecast"`
}

// WeatherBundle is the combined current-plus-forecast response.
type WeatherBundle struct {
	Current  CurrentWeather  `json:"current"`
	Forecast []ForecastEntry `json:"forecast"`
}

// CurrentWeatherFromRecord converts a record to its wire form.
func CurrentWeatherFromRecord(rec *weather.Record) CurrentWeather {
	return CurrentWeather{
		Timestamp:     rec.Timestamp,
		Temperature:   rec.Temperature,
		FeelsLike:     rec.FeelsLike,
		Humidity:      rec.Humidity,
		WindSpeed:     rec.WindSpeed,
		WindDirection: rec.WindDirection,
		Precipitation: rec.Precipitation,
		Condition:     string(rec.Condition),
		Description:   rec.Description,
		Icon:          rec.Icon,
		Location: LocationPayload{
			Lat:      rec.Location.Lat,
			Lon:      rec.Location.Lon,
			City:     rec.Location.City,
			District: rec.Location.District,
			Province: rec.Location.Province,
			Country:  rec.Location.Country,
		},
		Source: string(rec.Source),
		Cached: rec.Cached,
	}
}

// ForecastEntriesFromSlots converts forecast slots to their wire form. The
// result is never nil so empty forecasts serialize as [].
func ForecastEntriesFromSlots(slots []weather.ForecastSlot) []ForecastEntry {
	entries := make([]ForecastEntry, 0, len(slots))
	for _, s := range slots {
		entries = append(entries, ForecastEntry{
			Timestamp:     s.Timestamp,
			Temperature:   s.Temperature,
			Humidity:      s.Humidity,
			WindSpeed:     s.WindSpeed,
			Precipitation: s.Precipitation,
			PrecipProb:    s.PrecipProb,
			Condition:     string(s.Condition),
			Description:   s.Description,
			Icon:          s.Icon,
		})
	}
	return entries
}
