// Package handler provides HTTP handlers for the ondo API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ondolab/ondo/internal/api/middleware"
	"github.com/ondolab/ondo/internal/api/models"
	"github.com/ondolab/ondo/internal/api/response"
	"github.com/ondolab/ondo/internal/weather"
)

// WeatherService is the slice of the weather orchestrator the handlers use.
type WeatherService interface {
	CurrentWeather(ctx context.Context, lat, lon float64, force bool) (*weather.Record, error)
	Forecast(ctx context.Context, lat, lon float64) ([]weather.ForecastSlot, error)
	CurrentAndForecast(ctx context.Context, lat, lon float64, force bool) (*weather.Bundle, error)
}

// WeatherHandler handles the weather endpoints.
type WeatherHandler struct {
	service WeatherService
	metrics *middleware.AcquisitionMetrics
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(service WeatherService, metrics *middleware.AcquisitionMetrics) *WeatherHandler {
	return &WeatherHandler{service: service, metrics: metrics}
}

// Current handles GET /v1/weather/current?lat=..&lon=..&force=true.
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coordinates(w, r)
	if !ok {
		return
	}

	rec, err := h.service.CurrentWeather(r.Context(), lat, lon, forceRefresh(r))
	if err != nil {
		writeWeatherError(w, r, err)
		return
	}

	h.metrics.RecordAcquisition(string(rec.Source), rec.Cached)
	response.JSON(w, r, http.StatusOK, models.CurrentWeatherFromRecord(rec))
}

// Forecast handles GET /v1/weather/forecast?lat=..&lon=..
func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coordinates(w, r)
	if !ok {
		return
	}

	slots, err := h.service.Forecast(r.Context(), lat, lon)
	if err != nil {
		writeWeatherError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.ForecastResponse{
		Forecast: models.ForecastEntriesFromSlots(slots),
	})
}

// Bundle handles GET /v1/weather?lat=..&lon=..&force=true, returning current
// conditions and the forecast in one response.
func (h *WeatherHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coordinates(w, r)
	if !ok {
		return
	}

	bundle, err := h.service.CurrentAndForecast(r.Context(), lat, lon, forceRefresh(r))
	if err != nil {
		writeWeatherError(w, r, err)
		return
	}

	h.metrics.RecordAcquisition(string(bundle.Current.Source), bundle.Current.Cached)
	response.JSON(w, r, http.StatusOK, models.WeatherBundle{
		Current:  models.CurrentWeatherFromRecord(bundle.Current),
		Forecast: models.ForecastEntriesFromSlots(bundle.Forecast),
	})
}

// coordinates parses and validates the lat/lon query parameters, writing a
// 400 problem response when they are missing or malformed.
func coordinates(w http.ResponseWriter, r *http.Request) (lat, lon float64, ok bool) {
	var fieldErrors []models.FieldError

	lat, err := parseCoord(r, "lat")
	if err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lat", Message: err.Error(), Code: "invalid"})
	}
	lon, err = parseCoord(r, "lon")
	if err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lon", Message: err.Error(), Code: "invalid"})
	}

	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return 0, 0, false
	}
	return lat, lon, true
}

func parseCoord(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New("missing required parameter")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("must be a decimal degree value")
	}
	return v, nil
}

func forceRefresh(r *http.Request) bool {
	return r.URL.Query().Get("force") == "true"
}

func writeWeatherError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, weather.ErrInvalidCoordinates) {
		response.BadRequest(w, r, "coordinates out of range", []models.FieldError{
			{Field: "lat", Message: "latitude must be in [-90, 90]", Code: "out_of_range"},
			{Field: "lon", Message: "longitude must be in [-180, 180]", Code: "out_of_range"},
		})
		return
	}
	response.InternalError(w, r, "weather acquisition failed")
}
