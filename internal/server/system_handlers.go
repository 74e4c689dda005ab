package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/jappenzeller/SYSTEM/internal/config"
	"github.com/jappenzeller/SYSTEM/internal/database"
	"github.com/jappenzeller/SYSTEM/internal/gridcache"
	"github.com/jappenzeller/SYSTEM/internal/modules/verification"
	"github.com/jappenzeller/SYSTEM/internal/scheduler"
)

// SystemHandlers handles system monitoring and job trigger endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	cfg         *config.Config
	startupTime time.Time
	gridCacheDB *database.DB
	cache       *gridcache.Cache
	runner      *verification.Runner
	scheduler   *scheduler.Scheduler
}

// NewSystemHandlers creates system handlers. Any dependency may be nil; its
// section is then left out of the status.
func NewSystemHandlers(
	log zerolog.Logger,
	cfg *config.Config,
	gridCacheDB *database.DB,
	cache *gridcache.Cache,
	runner *verification.Runner,
	sched *scheduler.Scheduler,
) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		cfg:         cfg,
		startupTime: time.Now(),
		gridCacheDB: gridCacheDB,
		cache:       cache,
		runner:      runner,
		scheduler:   sched,
	}
}

// MemoryStatus is the host memory snapshot
type MemoryStatus struct {
	TotalBytes     uint64  `json:"total_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	UsedPercent    float64 `json:"used_percent"`
}

// GridLimits echoes the configured sampling limits
type GridLimits struct {
	Resolution    int       `json:"resolution"`
	MaxResolution int       `json:"max_resolution"`
	Workers       int       `json:"workers"`
	CacheTTL      string    `json:"cache_ttl"`
	IsoFractions  []float64 `json:"iso_fractions"`
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status        string                `json:"status"`
	UptimeSeconds float64               `json:"uptime_seconds"`
	Goroutines    int                   `json:"goroutines"`
	CPUPercent    float64               `json:"cpu_percent"`
	Memory        *MemoryStatus         `json:"memory,omitempty"`
	Grid          *GridLimits           `json:"grid,omitempty"`
	GridCache     *gridcache.Stats      `json:"grid_cache,omitempty"`
	GridCacheDB   *database.Stats       `json:"grid_cache_db,omitempty"`
	Verifications map[string]int        `json:"verifications,omitempty"`
	Jobs          []scheduler.JobStatus `json:"jobs,omitempty"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
	}

	cpuPercent, memory := h.getSystemStats()
	response.CPUPercent = cpuPercent
	response.Memory = memory

	if h.cfg != nil {
		response.Grid = &GridLimits{
			Resolution:    h.cfg.Grid.Resolution,
			MaxResolution: h.cfg.Grid.MaxResolution,
			Workers:       h.cfg.Grid.Workers,
			CacheTTL:      h.cfg.Grid.CacheTTL.String(),
			IsoFractions:  h.cfg.Grid.IsoFractions,
		}
	}

	if h.cache != nil {
		stats, err := h.cache.Stats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get grid cache stats")
			response.Status = "degraded"
		} else {
			response.GridCache = &stats
		}
	}

	if h.gridCacheDB != nil {
		stats, err := h.gridCacheDB.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get grid cache database stats")
			response.Status = "degraded"
		} else {
			response.GridCacheDB = stats
		}
	}

	if h.runner != nil {
		counts := make(map[string]int)
		for _, job := range h.runner.List() {
			counts[string(job.Status)]++
		}
		response.Verifications = counts
	}

	if h.scheduler != nil {
		response.Jobs = h.scheduler.Jobs()
	}

	writeJSON(w, http.StatusOK, response, h.log)
}

// HandleListJobs handles GET /api/system/jobs
func (h *SystemHandlers) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := []scheduler.JobStatus{}
	if h.scheduler != nil {
		jobs = h.scheduler.Jobs()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"total": len(jobs),
	}, h.log)
}

// HandleRunJob handles POST /api/system/jobs/{name}/run
func (h *SystemHandlers) HandleRunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.scheduler == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "Scheduler not running",
		}, h.log)
		return
	}

	err := h.scheduler.Trigger(name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"status":  "error",
			"message": err.Error(),
		}, h.log)
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"job":     name,
			"message": err.Error(),
		}, h.log)
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "success",
			"job":    name,
		}, h.log)
	}
}

// getSystemStats samples CPU over 100ms and reads memory instantly.
func (h *SystemHandlers) getSystemStats() (float64, *MemoryStatus) {
	cpuAvg := 0.0
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
	} else if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuAvg, nil
	}

	return cpuAvg, &MemoryStatus{
		TotalBytes:     memStat.Total,
		AvailableBytes: memStat.Available,
		UsedPercent:    memStat.UsedPercent,
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
