package openweathermap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ondolab/ondo/internal/weather"
	"github.com/ondolab/ondo/internal/weather/openweathermap"
)

func TestClient_FetchCurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("lat"), "37.566")
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		response := map[string]any{
			"weather": []map[string]any{
				{"main": "Rain", "description": "light rain"},
			},
			"main": map[string]any{
				"temp":       18.6,
				"feels_like": 17.2,
				"humidity":   82,
			},
			"wind": map[string]any{"speed": 4.5, "deg": 200},
			"rain": map[string]any{"1h": 0.8},
			"dt":   time.Date(2024, 5, 10, 14, 0, 0, 0, weather.KST).Unix(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Logger:  zerolog.Nop(),
	})

	rec, err := client.FetchCurrent(context.Background(), 37.5665, 126.9780)
	require.NoError(t, err)

	require.NotNil(t, rec.Temperature)
	assert.Equal(t, 19.0, *rec.Temperature) // rounded to whole degrees
	require.NotNil(t, rec.FeelsLike)
	assert.Equal(t, 17.0, *rec.FeelsLike)
	assert.Equal(t, 82.0, rec.Humidity)
	assert.Equal(t, 4.5, rec.WindSpeed)
	assert.Equal(t, 0.8, rec.Precipitation)
	assert.Equal(t, weather.ConditionRain, rec.Condition)
	assert.Equal(t, "light rain", rec.Description)
	assert.Equal(t, weather.SourceSecondary, rec.Source)
	assert.False(t, rec.Cached)
}

func TestClient_FetchCurrent_NotConfigured(t *testing.T) {
	client := openweathermap.NewClient(openweathermap.ClientConfig{Logger: zerolog.Nop()})

	_, err := client.FetchCurrent(context.Background(), 37.5665, 126.9780)
	require.ErrorIs(t, err, openweathermap.ErrNotConfigured)
}

func TestClient_FetchCurrent_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"cod":401}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:  "bad-key",
		BaseURL: server.URL,
		Logger:  zerolog.Nop(),
	})

	_, err := client.FetchCurrent(context.Background(), 37.5665, 126.9780)
	require.Error(t, err)
}

func TestClient_ConditionMappingTotality(t *testing.T) {
	mains := []struct {
		main string
		want weather.Condition
	}{
		{"Clear", weather.ConditionClear},
		{"Clouds", weather.ConditionClouds},
		{"Rain", weather.ConditionRain},
		{"Snow", weather.ConditionSnow},
		{"Thunderstorm", weather.ConditionThunderstorm},
		{"Drizzle", weather.ConditionDrizzle},
		{"Mist", weather.ConditionUnknown},
		{"Tornado", weather.ConditionUnknown},
		{"", weather.ConditionUnknown},
	}

	for _, tc := range mains {
		t.Run(tc.main, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				response := map[string]any{
					"weather": []map[string]any{{"main": tc.main}},
					"main":    map[string]any{"temp": 20.0, "feels_like": 20.0},
					"dt":      time.Now().Unix(),
				}
				_ = json.NewEncoder(w).Encode(response)
			}))
			defer server.Close()

			client := openweathermap.NewClient(openweathermap.ClientConfig{
				APIKey:  "test-key",
				BaseURL: server.URL,
				Logger:  zerolog.Nop(),
			})

			rec, err := client.FetchCurrent(context.Background(), 37.5, 127.0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, rec.Condition)
		})
	}
}
