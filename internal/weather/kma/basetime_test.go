package kma

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ondolab/ondo/internal/weather"
)

func kst(hour, minute int) time.Time {
	return time.Date(2024, 5, 10, hour, minute, 0, 0, weather.KST)
}

func TestNowcastBase(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantDate string
		wantTime string
	}{
		{"mid-hour", kst(14, 35), "20240510", "1330"},
		{"just after publication lag", kst(14, 41), "20240510", "1400"},
		{"top of hour", kst(14, 0), "20240510", "1300"},
		{"midnight rollover", kst(0, 10), "20240509", "2330"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bt := nowcastBase(tc.now)
			assert.Equal(t, tc.wantDate, bt.Date())
			assert.Equal(t, tc.wantTime, bt.Time())
		})
	}
}

func TestForecastBase(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantDate string
		wantTime string
	}{
		{"afternoon", kst(15, 0), "20240510", "1100"},
		{"just past slot plus lag", kst(14, 15), "20240510", "1100"},
		{"inside slot lag window", kst(14, 5), "20240510", "1100"},
		{"early morning before first slot", kst(2, 30), "20240509", "2300"},
		{"after first slot published", kst(3, 30), "20240510", "0200"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bt := forecastBase(tc.now)
			assert.Equal(t, tc.wantDate, bt.Date())
			assert.Equal(t, tc.wantTime, bt.Time())
		})
	}
}

func TestBaseTime_StepBack(t *testing.T) {
	bt := nowcastBase(kst(14, 35)) // 1330
	stepped := bt.StepBack(nowcastStep)
	assert.Equal(t, "1300", stepped.Time())

	// Forecast stepback stays on the publication grid across midnight.
	fb := forecastBase(kst(3, 30)) // 0200
	stepped = fb.StepBack(forecastStep)
	assert.Equal(t, "20240509", stepped.Date())
	assert.Equal(t, "2300", stepped.Time())
}
