package kma

import (
	"time"

	"github.com/ondolab/ondo/internal/weather"
)

// Publication schedule constants. The nowcast is published every half hour
// with a lag before the data is queryable; the short-range forecast is
// published on three-hour slots starting at 02:00 KST.
const (
	nowcastLag  = 40 * time.Minute
	nowcastStep = 30 * time.Minute

	forecastLag  = 70 * time.Minute
	forecastStep = 3 * time.Hour
)

// forecastHours are the provider-native forecast publication hours, KST.
var forecastHours = []int{2, 5, 8, 11, 14, 17, 20, 23}

// BaseTime is a provider-native publication timestamp, expressed as the
// (base_date, base_time) pair the query API expects.
type BaseTime struct {
	t time.Time
}

// Date formats the base date as YYYYMMDD in KST.
func (b BaseTime) Date() string {
	return b.t.Format("20060102")
}

// Time formats the base time as HHMM in KST.
func (b BaseTime) Time() string {
	return b.t.Format("1504")
}

// StepBack returns the base time moved backward by d. Stepping a forecast
// base by its publication interval stays on the publication grid, including
// across midnight.
func (b BaseTime) StepBack(d time.Duration) BaseTime {
	return BaseTime{t: b.t.Add(-d)}
}

// nowcastBase computes the most recent nowcast base time that should already
// be published: now minus the safety lag, rounded down to the half hour.
// The KST offset is a whole multiple of the rounding step, so truncation in
// absolute time lands on KST slot boundaries.
func nowcastBase(now time.Time) BaseTime {
	t := now.In(weather.KST).Add(-nowcastLag)
	return BaseTime{t: t.Truncate(nowcastStep).In(weather.KST)}
}

// forecastBase computes the most recent short-range forecast base time: the
// latest publication slot at or before now minus the safety lag.
func forecastBase(now time.Time) BaseTime {
	t := now.In(weather.KST).Add(-forecastLag)

	for i := len(forecastHours) - 1; i >= 0; i-- {
		h := forecastHours[i]
		if t.Hour() >= h {
			slot := time.Date(t.Year(), t.Month(), t.Day(), h, 0, 0, 0, weather.KST)
			return BaseTime{t: slot}
		}
	}

	// Before the first slot of the day: previous day's last slot.
	prev := t.AddDate(0, 0, -1)
	slot := time.Date(prev.Year(), prev.Month(), prev.Day(), forecastHours[len(forecastHours)-1], 0, 0, 0, weather.KST)
	return BaseTime{t: slot}
}
