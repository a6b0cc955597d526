package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/partydex/partydex/internal/database"
	"github.com/partydex/partydex/internal/modules/pokemon"
	"github.com/partydex/partydex/internal/scheduler"
)

// RosterStatus exposes roster cache state
type RosterStatus interface {
	Ready() bool
	Rebuilding() bool
	Stats() pokemon.BuildStats
}

// MatrixStatus exposes type matrix state
type MatrixStatus interface {
	Ready() bool
	Rebuilding() bool
	BuiltAt() time.Time
}

// JobLister reports scheduled jobs
type JobLister interface {
	Jobs() []scheduler.JobStatus
}

// RebuildTrigger starts a cache rebuild
type RebuildTrigger interface {
	RunWithTrigger(ctx context.Context, trigger string) error
}

// SystemHandlers serves operational status and manual rebuild endpoints
type SystemHandlers struct {
	roster  RosterStatus
	matrix  MatrixStatus
	db      *database.DB
	rebuild RebuildTrigger
	jobs    JobLister
	log     zerolog.Logger
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	roster RosterStatus,
	matrix MatrixStatus,
	db *database.DB,
	rebuild RebuildTrigger,
	jobs JobLister,
	log zerolog.Logger,
) *SystemHandlers {
	return &SystemHandlers{
		roster:  roster,
		matrix:  matrix,
		db:      db,
		rebuild: rebuild,
		jobs:    jobs,
		log:     log.With().Str("handler", "system").Logger(),
	}
}

// RosterStatusResponse describes the roster cache
type RosterStatusResponse struct {
	Ready      bool               `json:"ready"`
	Rebuilding bool               `json:"rebuilding"`
	Stats      pokemon.BuildStats `json:"stats"`
}

// MatrixStatusResponse describes the type matrix
type MatrixStatusResponse struct {
	Ready      bool       `json:"ready"`
	Rebuilding bool       `json:"rebuilding"`
	BuiltAt    *time.Time `json:"builtAt,omitempty"`
}

// DatabaseStatusResponse describes the sqlite database
type DatabaseStatusResponse struct {
	Name          string          `json:"name"`
	Profile       string          `json:"profile"`
	Healthy       bool            `json:"healthy"`
	Error         string          `json:"error,omitempty"`
	SchemaVersion uint            `json:"schemaVersion"`
	Dirty         bool            `json:"dirty"`
	Stats         *database.Stats `json:"stats,omitempty"`
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status     string                  `json:"status"`
	Roster     RosterStatusResponse    `json:"roster"`
	Matrix     MatrixStatusResponse    `json:"matrix"`
	Database   *DatabaseStatusResponse `json:"database,omitempty"`
	Jobs       []scheduler.JobStatus   `json:"jobs,omitempty"`
	CPUPercent float64                 `json:"cpuPercent"`
	MemPercent float64                 `json:"memPercent"`
	Goroutines int                     `json:"goroutines"`
	Timestamp  string                  `json:"timestamp"`
}

// HandleSystemStatus returns cache, database and host status
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	resp := SystemStatusResponse{
		Status: "healthy",
		Roster: RosterStatusResponse{
			Ready:      h.roster.Ready(),
			Rebuilding: h.roster.Rebuilding(),
			Stats:      h.roster.Stats(),
		},
		Matrix: MatrixStatusResponse{
			Ready:      h.matrix.Ready(),
			Rebuilding: h.matrix.Rebuilding(),
		},
		Goroutines: runtime.NumGoroutine(),
		Timestamp:  time.Now().Format(time.RFC3339),
	}

	if builtAt := h.matrix.BuiltAt(); !builtAt.IsZero() {
		resp.Matrix.BuiltAt = &builtAt
	}
	if !resp.Roster.Ready || !resp.Matrix.Ready {
		resp.Status = "degraded"
	}

	if h.db != nil {
		resp.Database = h.databaseStatus(r.Context())
		if !resp.Database.Healthy || resp.Database.Dirty {
			resp.Status = "degraded"
		}
	}

	if h.jobs != nil {
		resp.Jobs = h.jobs.Jobs()
	}

	resp.CPUPercent, resp.MemPercent = h.getSystemStats()

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleRebuild starts a background rebuild of the roster cache and type matrix
// POST /api/system/rebuild
func (h *SystemHandlers) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	if h.roster.Rebuilding() || h.matrix.Rebuilding() {
		h.writeJSON(w, http.StatusConflict, map[string]string{
			"error": "A rebuild is already in progress",
		})
		return
	}

	h.log.Info().Msg("Manual rebuild triggered")

	// The request context ends with the response; the rebuild must outlive it
	go func() {
		if err := h.rebuild.RunWithTrigger(context.Background(), scheduler.TriggerManual); err != nil {
			h.log.Error().Err(err).Msg("Manual rebuild failed")
		}
	}()

	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"message": "Rebuild started",
	})
}

func (h *SystemHandlers) databaseStatus(ctx context.Context) *DatabaseStatusResponse {
	status := &DatabaseStatusResponse{
		Name:    h.db.Name(),
		Profile: string(h.db.Profile()),
		Healthy: true,
	}

	if err := h.db.HealthCheck(ctx); err != nil {
		h.log.Error().Err(err).Str("database", h.db.Name()).Msg("Database health check failed")
		status.Healthy = false
		status.Error = err.Error()
	}

	version, dirty, err := h.db.SchemaVersion()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to read schema version")
	}
	status.SchemaVersion = version
	status.Dirty = dirty

	stats, err := h.db.GetStats()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to read database stats")
	} else {
		status.Stats = stats
	}

	return status
}

// getSystemStats samples CPU over a short window and reads current RAM usage
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
