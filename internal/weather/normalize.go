package weather

import "math"

// KMA precipitation type (PTY) codes.
const (
	ptyNone         = 0
	ptyRain         = 1
	ptyRainSnow     = 2
	ptySnow         = 3
	ptyShower       = 4
	ptyDrizzle      = 5
	ptyDrizzleSnow  = 6
	ptySnowFlurries = 7
)

// KMA sky state (SKY) codes.
const (
	skyClear      = 1
	skyPartCloudy = 3
	skyOvercast   = 4
)

// ConditionFromKMA maps the KMA sky and precipitation-type codes onto the
// canonical condition. Precipitation wins over sky state; unmapped codes
// fall through to ConditionUnknown.
func ConditionFromKMA(sky, pty int) Condition {
	switch pty {
	case ptyRain, ptyShower:
		return ConditionRain
	case ptyRainSnow, ptySnow, ptySnowFlurries:
		return ConditionSnow
	case ptyDrizzle, ptyDrizzleSnow:
		return ConditionDrizzle
	case ptyNone:
		switch sky {
		case skyClear:
			return ConditionClear
		case skyPartCloudy:
			return ConditionClouds
		case skyOvercast:
			return ConditionOvercast
		}
	}
	return ConditionUnknown
}

// ConditionFromOWM maps an OpenWeatherMap "main" condition string onto the
// canonical condition.
func ConditionFromOWM(main string) Condition {
	switch main {
	case "Clear":
		return ConditionClear
	case "Clouds":
		return ConditionClouds
	case "Rain":
		return ConditionRain
	case "Snow":
		return ConditionSnow
	case "Thunderstorm":
		return ConditionThunderstorm
	case "Drizzle":
		return ConditionDrizzle
	default:
		return ConditionUnknown
	}
}

// RoundTemp applies the canonical rounding rule: whole degrees, for both
// current conditions and forecast entries.
func RoundTemp(v float64) float64 {
	return math.Round(v)
}

// DescriptionOrCondition falls back to the condition name when the provider
// supplied no free-text description.
func DescriptionOrCondition(desc string, c Condition) string {
	if desc == "" {
		return string(c)
	}
	return desc
}

// Default sunrise/sunset hours used when the provider does not report them.
const (
	DefaultSunrise = 6
	DefaultSunset  = 18
)

// IconFor picks the OpenWeatherMap-style icon code for a condition, using
// the hour of day to choose the day or night variant.
func IconFor(hour int, c Condition, sunrise, sunset int) string {
	suffix := "n"
	if hour >= sunrise && hour < sunset {
		suffix = "d"
	}

	switch c {
	case ConditionClear:
		return "01" + suffix
	case ConditionClouds:
		return "02" + suffix
	case ConditionOvercast:
		return "04" + suffix
	case ConditionRain:
		return "10" + suffix
	case ConditionDrizzle:
		return "09" + suffix
	case ConditionThunderstorm:
		return "11" + suffix
	case ConditionSnow:
		return "13" + suffix
	default:
		return "02" + suffix
	}
}
