package models

import "time"

// Health status values.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// ProviderStatus describes one configured weather source.
type ProviderStatus struct {
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
}

// Health is the liveness response.
type Health struct {
	Status    string           `json:"status"`
	Time      time.Time        `json:"time"`
	Version   string           `json:"version,omitempty"`
	BuildTime string           `json:"buildTime,omitempty"`
	Providers []ProviderStatus `json:"providers,omitempty"`
}

// CacheStats is the cache occupancy response.
type CacheStats struct {
	Entries      int    `json:"entries"`
	FreshEntries int    `json:"fresh_entries"`
	TTL          string `json:"ttl"`
}

// CacheCleared is the response to a cache invalidation.
type CacheCleared struct {
	Evicted int `json:"evicted"`
}
