package handler

import (
	"net/http"
	"strconv"

	"github.com/ondolab/ondo/internal/api/models"
	"github.com/ondolab/ondo/internal/api/response"
	"github.com/ondolab/ondo/internal/recommend"
)

// RecommendHandler serves outfit recommendations derived from current
// conditions.
type RecommendHandler struct {
	service WeatherService
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(service WeatherService) *RecommendHandler {
	return &RecommendHandler{service: service}
}

// Outfit handles GET /v1/recommendations?lat=..&lon=..&temp_bias=..
// The optional temp_bias parameter shifts the perceived temperature for
// users who run hot or cold.
func (h *RecommendHandler) Outfit(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coordinates(w, r)
	if !ok {
		return
	}

	tempBias := 0.0
	if raw := r.URL.Query().Get("temp_bias"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(w, r, "invalid temp_bias", []models.FieldError{
				{Field: "temp_bias", Message: "must be a decimal degree offset", Code: "invalid"},
			})
			return
		}
		tempBias = v
	}

	rec, err := h.service.CurrentWeather(r.Context(), lat, lon, false)
	if err != nil {
		writeWeatherError(w, r, err)
		return
	}

	outfit := recommend.Outfit(recommend.FromRecord(rec, tempBias))
	response.JSON(w, r, http.StatusOK, models.OutfitRecommendation{
		AdjustedTemp: outfit.AdjustedTemp,
		Items:        outfit.Items,
		Weather:      models.CurrentWeatherFromRecord(rec),
	})
}
