package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ondolab/ondo/internal/weather"
)

func TestOutfit_TemperatureBands(t *testing.T) {
	tests := []struct {
		name      string
		feelsLike float64
		want      []string
	}{
		{"sweltering", 32, []string{"반팔", "반바지", "린넨 소재"}},
		{"hot", 27, []string{"반팔", "얇은 셔츠", "반바지"}},
		{"warm", 22, []string{"긴팔 티셔츠", "가디건", "얇은 바람막이"}},
		{"mild", 17, []string{"니트", "얇은 자켓", "가디건"}},
		{"cool", 12, []string{"자켓", "트렌치코트", "맨투맨"}},
		{"cold", 7, []string{"코트", "가죽자켓", "두꺼운 니트"}},
		{"freezing", 2, []string{"두꺼운 코트", "패딩", "목도리"}},
		{"below zero", -5, []string{"두꺼운 패딩", "장갑", "목도리", "모자"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Outfit(Input{FeelsLike: tt.feelsLike})
			assert.Equal(t, tt.want, rec.Items)
			assert.Equal(t, tt.feelsLike, rec.AdjustedTemp)
		})
	}
}

func TestOutfit_BandBoundariesAreInclusive(t *testing.T) {
	assert.Equal(t, []string{"반팔", "반바지", "린넨 소재"}, Outfit(Input{FeelsLike: 30}).Items)
	assert.Equal(t, []string{"두꺼운 코트", "패딩", "목도리"}, Outfit(Input{FeelsLike: 0}).Items)
}

func TestOutfit_TempBiasShiftsBand(t *testing.T) {
	// A user who runs cold at 18° dresses for 22°.
	rec := Outfit(Input{FeelsLike: 18, TempBias: 4})
	assert.Equal(t, 22.0, rec.AdjustedTemp)
	assert.Equal(t, []string{"긴팔 티셔츠", "가디건", "얇은 바람막이"}, rec.Items)

	rec = Outfit(Input{FeelsLike: 22, TempBias: -4})
	assert.Equal(t, []string{"니트", "얇은 자켓", "가디건"}, rec.Items)
}

func TestOutfit_Modifiers(t *testing.T) {
	t.Run("active precipitation adds rain gear", func(t *testing.T) {
		rec := Outfit(Input{FeelsLike: 22, Precipitation: 0.5})
		assert.Contains(t, rec.Items, "우산")
		assert.Contains(t, rec.Items, "방수 신발/자켓")
	})

	t.Run("high rain probability adds rain gear", func(t *testing.T) {
		rec := Outfit(Input{FeelsLike: 22, PrecipProb: 60})
		assert.Contains(t, rec.Items, "우산")
	})

	t.Run("probability at threshold does not", func(t *testing.T) {
		rec := Outfit(Input{FeelsLike: 22, PrecipProb: 50})
		assert.NotContains(t, rec.Items, "우산")
	})

	t.Run("humid heat adds breathable fabric", func(t *testing.T) {
		rec := Outfit(Input{FeelsLike: 25, Humidity: 85})
		assert.Contains(t, rec.Items, "통풍 좋은 소재")
	})

	t.Run("humid cold does not", func(t *testing.T) {
		rec := Outfit(Input{FeelsLike: 10, Humidity: 85})
		assert.NotContains(t, rec.Items, "통풍 좋은 소재")
	})

	t.Run("strong wind adds windbreaker", func(t *testing.T) {
		rec := Outfit(Input{FeelsLike: 15, WindSpeed: 8})
		assert.Contains(t, rec.Items, "바람막이")
	})

	t.Run("snow adds boots and gloves", func(t *testing.T) {
		rec := Outfit(Input{FeelsLike: -2, Condition: weather.ConditionSnow})
		assert.Contains(t, rec.Items, "부츠")
		assert.Contains(t, rec.Items, "장갑")
	})
}

func TestOutfit_DoesNotMutateBandTable(t *testing.T) {
	before := len(Bands[2].Items)
	_ = Outfit(Input{FeelsLike: 22, Precipitation: 1, WindSpeed: 9, Humidity: 90})
	assert.Len(t, Bands[2].Items, before)
}

func TestFromRecord(t *testing.T) {
	rec := &weather.Record{
		Temperature:   weather.Float(20),
		FeelsLike:     weather.Float(18),
		Humidity:      70,
		WindSpeed:     3,
		Precipitation: 0.2,
		Condition:     weather.ConditionRain,
	}

	in := FromRecord(rec, 1.5)
	assert.Equal(t, 18.0, in.FeelsLike)
	assert.Equal(t, 70.0, in.Humidity)
	assert.Equal(t, 1.5, in.TempBias)

	// Feels-like falls back to the air temperature when absent.
	rec.FeelsLike = nil
	assert.Equal(t, 20.0, FromRecord(rec, 0).FeelsLike)

	// Both absent: zero value, the caller still gets a recommendation.
	rec.Temperature = nil
	assert.Equal(t, 0.0, FromRecord(rec, 0).FeelsLike)
}
