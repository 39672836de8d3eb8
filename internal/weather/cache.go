package weather

import (
	"fmt"
	"sync"
	"time"

	"github.com/ondolab/ondo/internal/geo"
)

// DefaultCacheTTL is how long a cached record is considered fresh.
const DefaultCacheTTL = 5 * time.Minute

// coordPrecision rounds cache-key coordinates to ~110m so near-identical
// requests share an entry.
const coordPrecision = "%.3f"

// Store is an in-process TTL cache for weather records and forecast slots.
// It is explicitly owned and injected into the orchestrator so tests get
// isolated instances. Values are always fully replaced, never partially
// updated, so last-writer-wins on concurrent sets is safe.
type Store struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	value    any
	storedAt time.Time
}

// NewStore creates a cache store with the given TTL. A zero TTL uses
// DefaultCacheTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &Store{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// CacheKey builds the key for a current-conditions entry from the rounded
// coordinate and the grid cell.
func CacheKey(lat, lon float64, cell geo.Cell) string {
	return fmt.Sprintf(coordPrecision+":"+coordPrecision+":%d:%d", lat, lon, cell.X, cell.Y)
}

// ForecastCacheKey builds the key for a forecast entry. Forecasts share the
// store with current conditions under a distinct prefix.
func ForecastCacheKey(lat, lon float64, cell geo.Cell) string {
	return "fc:" + CacheKey(lat, lon, cell)
}

// Get returns the cached record for key if it is within its TTL. The
// returned copy has Cached forced true.
func (s *Store) Get(key string) (*Record, bool) {
	rec, storedAt, ok := s.lookup(key)
	if !ok || s.expired(storedAt) {
		return nil, false
	}
	return withCachedFlag(rec), true
}

// GetStale returns the cached record for key regardless of TTL. This is the
// last line of defense when all live sources fail: staleness is preferred
// over hard failure. The returned copy is tagged SourceCache.
func (s *Store) GetStale(key string) (*Record, bool) {
	rec, _, ok := s.lookup(key)
	if !ok {
		return nil, false
	}
	stale := withCachedFlag(rec)
	stale.Source = SourceCache
	return stale, true
}

func (s *Store) lookup(key string) (*Record, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, time.Time{}, false
	}
	rec, ok := e.value.(*Record)
	if !ok {
		return nil, time.Time{}, false
	}
	return rec, e.storedAt, true
}

// Set stores a record under key, overwriting any previous entry.
func (s *Store) Set(key string, rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cacheEntry{value: rec, storedAt: s.now()}
}

// GetForecast returns cached forecast slots for key if within TTL.
func (s *Store) GetForecast(key string) ([]ForecastSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || s.expired(e.storedAt) {
		return nil, false
	}
	slots, ok := e.value.([]ForecastSlot)
	return slots, ok
}

// SetForecast stores forecast slots under key.
func (s *Store) SetForecast(key string, slots []ForecastSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cacheEntry{value: slots, storedAt: s.now()}
}

// Clear drops every entry and reports how many were evicted.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	s.entries = make(map[string]cacheEntry)
	return n
}

// StoreStats describes cache occupancy.
type StoreStats struct {
	Entries      int
	FreshEntries int
	TTL          time.Duration
}

// Stats returns current cache statistics.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fresh := 0
	for _, e := range s.entries {
		if !s.expired(e.storedAt) {
			fresh++
		}
	}
	return StoreStats{Entries: len(s.entries), FreshEntries: fresh, TTL: s.ttl}
}

func (s *Store) expired(storedAt time.Time) bool {
	return s.now().After(storedAt.Add(s.ttl))
}

func withCachedFlag(rec *Record) *Record {
	cp := *rec
	cp.Cached = true
	return &cp
}
