package models

// OutfitRecommendation is the outfit recommendation response.
type OutfitRecommendation struct {
	AdjustedTemp float64        `json:"adjusted_temp"`
	Items        []string       `json:"items"`
	Weather      CurrentWeather `json:"weather"`
}
