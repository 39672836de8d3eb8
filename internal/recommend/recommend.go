// Package recommend turns a weather record into an outfit recommendation.
// The rules are a fixed temperature-band table plus condition modifiers,
// evaluated against the feels-like temperature adjusted by a per-user bias.
package recommend

import (
	"github.com/ondolab/ondo/internal/weather"
)

// Band is one temperature band of the outfit table. A band applies when the
// adjusted temperature is at or above Min.
type Band struct {
	Min   float64
	Items []string
}

// Bands is the outfit table, ordered warmest first. The final band has no
// lower bound and catches everything below zero.
var Bands = []Band{
	{Min: 30, Items: []string{"반팔", "반바지", "린넨 소재"}},
	{Min: 25, Items: []string{"반팔", "얇은 셔츠", "반바지"}},
	{Min: 20, Items: []string{"긴팔 티셔츠", "가디건", "얇은 바람막이"}},
	{Min: 15, Items: []string{"니트", "얇은 자켓", "가디건"}},
	{Min: 10, Items: []string{"자켓", "트렌치코트", "맨투맨"}},
	{Min: 5, Items: []string{"코트", "가죽자켓", "두꺼운 니트"}},
	{Min: 0, Items: []string{"두꺼운 코트", "패딩", "목도리"}},
}

var coldestItems = []string{"두꺼운 패딩", "장갑", "목도리", "모자"}

// Modifier thresholds for the supplementary rules.
const (
	rainProbThreshold    = 50.0
	humidThreshold       = 80.0
	humidTempFloor       = 20.0
	windThreshold        = 7.0
)

// Input is the weather snapshot a recommendation is computed from.
type Input struct {
	FeelsLike     float64
	Humidity      float64
	WindSpeed     float64
	Precipitation float64
	PrecipProb    float64
	Condition     weather.Condition

	// TempBias is a per-user adjustment in degrees; positive means the
	// user runs cold and dresses warmer.
	TempBias float64
}

// Recommendation is the computed outfit.
type Recommendation struct {
	AdjustedTemp float64  `json:"adjusted_temp"`
	Items        []string `json:"items"`
}

// FromRecord builds an Input from a weather record. Missing temperatures
// fall back to zero-valued fields rather than failing.
func FromRecord(rec *weather.Record, tempBias float64) Input {
	in := Input{
		Humidity:      rec.Humidity,
		WindSpeed:     rec.WindSpeed,
		Precipitation: rec.Precipitation,
		Condition:     rec.Condition,
		TempBias:      tempBias,
	}
	switch {
	case rec.FeelsLike != nil:
		in.FeelsLike = *rec.FeelsLike
	case rec.Temperature != nil:
		in.FeelsLike = *rec.Temperature
	}
	return in
}

// Outfit evaluates the outfit table and modifiers for the given input.
func Outfit(in Input) Recommendation {
	adjusted := in.FeelsLike + in.TempBias

	items := coldestItems
	for _, band := range Bands {
		if adjusted >= band.Min {
			items = band.Items
			break
		}
	}

	// Copy so modifier appends never mutate the shared table.
	out := make([]string, len(items), len(items)+8)
	copy(out, items)

	if in.Precipitation > 0 || in.PrecipProb > rainProbThreshold {
		out = append(out, "우산", "방수 신발/자켓")
	}
	if in.Humidity >= humidThreshold && adjusted >= humidTempFloor {
		out = append(out, "통풍 좋은 소재")
	}
	if in.WindSpeed >= windThreshold {
		out = append(out, "바람막이")
	}
	if in.Condition == weather.ConditionSnow {
		out = append(out, "부츠", "장갑")
	}

	return Recommendation{AdjustedTemp: adjusted, Items: out}
}
