package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ondolab/ondo/internal/geo"
)

func TestCacheKey(t *testing.T) {
	key := CacheKey(37.566, 126.978, geo.Cell{X: 60, Y: 127})
	assert.Equal(t, "37.566:126.978:60:127", key)
	assert.Equal(t, "fc:"+key, ForecastCacheKey(37.566, 126.978, geo.Cell{X: 60, Y: 127}))

	// Nearby coordinates share the key after rounding.
	assert.Equal(t, key, CacheKey(37.5661, 126.9781, geo.Cell{X: 60, Y: 127}))
}

func TestStore_FreshHitForcesCachedFlag(t *testing.T) {
	store := NewStore(5 * time.Minute)

	rec := primaryRecord(21)
	store.Set("k", rec)

	got, ok := store.Get("k")
	require.True(t, ok)
	assert.True(t, got.Cached)
	// The original source tag survives a fresh hit.
	assert.Equal(t, SourcePrimary, got.Source)
	// The stored record itself is never mutated.
	assert.False(t, rec.Cached)
}

func TestStore_TTLExpiry(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 0, 0, 0, KST)
	store := NewStore(5 * time.Minute)
	store.now = func() time.Time { return now }

	store.Set("k", primaryRecord(21))

	now = now.Add(5 * time.Minute)
	_, ok := store.Get("k")
	assert.True(t, ok, "entry at exactly TTL is still fresh")

	now = now.Add(time.Second)
	_, ok = store.Get("k")
	assert.False(t, ok, "entry past TTL is not fresh")

	// Stale retrieval ignores the TTL and retags the source.
	stale, ok := store.GetStale("k")
	require.True(t, ok)
	assert.True(t, stale.Cached)
	assert.Equal(t, SourceCache, stale.Source)
}

func TestStore_GetStale_Miss(t *testing.T) {
	store := NewStore(5 * time.Minute)
	_, ok := store.GetStale("missing")
	assert.False(t, ok)
}

func TestStore_ForecastEntries(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 0, 0, 0, KST)
	store := NewStore(5 * time.Minute)
	store.now = func() time.Time { return now }

	slots := []ForecastSlot{{Timestamp: now.Add(time.Hour), Condition: ConditionClouds}}
	store.SetForecast("fc:k", slots)

	got, ok := store.GetForecast("fc:k")
	require.True(t, ok)
	assert.Equal(t, slots, got)

	// Forecasts have no stale path: expiry is a plain miss.
	now = now.Add(6 * time.Minute)
	_, ok = store.GetForecast("fc:k")
	assert.False(t, ok)
}

func TestStore_TypeMismatchIsMiss(t *testing.T) {
	store := NewStore(5 * time.Minute)

	store.SetForecast("k", []ForecastSlot{})
	_, ok := store.Get("k")
	assert.False(t, ok)

	store.Set("k2", primaryRecord(21))
	_, ok = store.GetForecast("k2")
	assert.False(t, ok)
}

func TestStore_ClearAndStats(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 0, 0, 0, KST)
	store := NewStore(5 * time.Minute)
	store.now = func() time.Time { return now }

	store.Set("a", primaryRecord(21))
	now = now.Add(10 * time.Minute)
	store.Set("b", primaryRecord(22))

	stats := store.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 1, stats.FreshEntries)
	assert.Equal(t, 5*time.Minute, stats.TTL)

	assert.Equal(t, 2, store.Clear())
	assert.Equal(t, 0, store.Stats().Entries)
}
