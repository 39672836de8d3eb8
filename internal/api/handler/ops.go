package handler

import (
	"net/http"
	"time"

	"github.com/ondolab/ondo/internal/api/models"
	"github.com/ondolab/ondo/internal/api/response"
	"github.com/ondolab/ondo/internal/weather"
)

// CacheAdmin is the slice of the weather orchestrator used for cache
// administration.
type CacheAdmin interface {
	ClearCache() int
	CacheStats() weather.StoreStats
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	cache     CacheAdmin
	providers []models.ProviderStatus
}

// NewOpsHandler creates a new OpsHandler. The providers list reports which
// weather sources are configured.
func NewOpsHandler(version, buildTime string, cache CacheAdmin, providers []models.ProviderStatus) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		cache:     cache,
		providers: providers,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	for _, p := range h.providers {
		if !p.Configured {
			status = models.HealthStatusDegraded
			break
		}
	}

	response.JSON(w, r, http.StatusOK, models.Health{
		Status:    status,
		Time:      time.Now().UTC(),
		Version:   h.version,
		BuildTime: h.buildTime,
		Providers: h.providers,
	})
}

// CacheStats handles GET /v1/ops/cache - cache occupancy.
func (h *OpsHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.CacheStats()
	response.JSON(w, r, http.StatusOK, models.CacheStats{
		Entries:      stats.Entries,
		FreshEntries: stats.FreshEntries,
		TTL:          stats.TTL.String(),
	})
}

// ClearCache handles DELETE /v1/ops/cache - drops every cached record.
func (h *OpsHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	evicted := h.cache.ClearCache()
	response.JSON(w, r, http.StatusOK, models.CacheCleared{Evicted: evicted})
}
