package api

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/playforge/arcadehub/internal/games"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse represents a comprehensive health check response
type HealthCheckResponse struct {
	Status     HealthStatus           `json:"status"`
	Timestamp  string                 `json:"timestamp"`
	HubVersion string                 `json:"hub_version"`
	GitCommit  string                 `json:"git_commit,omitempty"`
	BuildTime  string                 `json:"build_time,omitempty"`
	Uptime     string                 `json:"uptime"`
	Checks     map[string]HealthCheck `json:"checks"`
	System     SystemInfo             `json:"system"`
	RequestID  string                 `json:"request_id,omitempty"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked string       `json:"last_checked"`
	Duration    string       `json:"duration,omitempty"`
}

// SystemInfo contains system information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	GOMAXPROCS    int    `json:"gomaxprocs"`
	MemoryAlloc   uint64 `json:"memory_alloc_bytes"`
	MemoryTotal   uint64 `json:"memory_total_bytes"`
	MemorySys     uint64 `json:"memory_sys_bytes"`
	GCCycles      uint32 `json:"gc_cycles"`
}

// MetricsResponse represents basic runtime metrics
type MetricsResponse struct {
	Timestamp    string     `json:"timestamp"`
	HubVersion   string     `json:"hub_version"`
	Uptime       string     `json:"uptime"`
	System       SystemInfo `json:"system"`
	OpenSessions int        `json:"open_sessions"`
	Engines      int        `json:"engines"`
	RequestID    string     `json:"request_id,omitempty"`
}

// handleHealthCheck provides comprehensive health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	checks := make(map[string]HealthCheck)
	overallStatus := HealthStatusHealthy

	engineCheck := s.checkEnginesHealth()
	checks["engines"] = engineCheck
	if engineCheck.Status != HealthStatusHealthy {
		overallStatus = HealthStatusDegraded
	}

	dbCheck := s.checkDatabaseHealth()
	checks["database"] = dbCheck
	if dbCheck.Status == HealthStatusUnhealthy {
		overallStatus = HealthStatusUnhealthy
	} else if dbCheck.Status == HealthStatusDegraded && overallStatus == HealthStatusHealthy {
		overallStatus = HealthStatusDegraded
	}

	response := HealthCheckResponse{
		Status:     overallStatus,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		HubVersion: HubVersion,
		GitCommit:  GitCommit,
		BuildTime:  BuildTime,
		Uptime:     time.Since(s.startTime).String(),
		Checks:     checks,
		System:     getSystemInfo(),
		RequestID:  requestID,
	}

	statusCode := http.StatusOK
	if overallStatus == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	s.writeJSON(w, statusCode, response)
}

// handleMetrics provides basic runtime metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	openSessions := 0
	if s.db != nil {
		if n, err := s.db.CountSessions(); err == nil {
			openSessions = n
		}
	}

	s.writeJSON(w, http.StatusOK, MetricsResponse{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		HubVersion:   HubVersion,
		Uptime:       time.Since(s.startTime).String(),
		System:       getSystemInfo(),
		OpenSessions: openSessions,
		Engines:      len(games.ListEngines()),
		RequestID:    middleware.GetReqID(r.Context()),
	})
}

// handleReadiness provides readiness probe endpoint
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	ready := true
	message := "Ready"

	if len(games.ListEngines()) == 0 {
		ready = false
		message = "No game engines registered"
	}
	if s.db == nil {
		ready = false
		message = "Database not initialized"
	} else if err := s.db.Ping(); err != nil {
		ready = false
		message = "Database unreachable: " + err.Error()
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	s.writeJSON(w, statusCode, map[string]any{
		"ready":       ready,
		"message":     message,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"hub_version": HubVersion,
		"request_id":  middleware.GetReqID(r.Context()),
	})
}

// handleLiveness provides liveness probe endpoint
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"alive":       true,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"hub_version": HubVersion,
		"uptime":      time.Since(s.startTime).String(),
		"request_id":  middleware.GetReqID(r.Context()),
	})
}

// checkEnginesHealth checks that the engine registry is populated
func (s *Server) checkEnginesHealth() HealthCheck {
	start := time.Now()

	n := len(games.ListEngines())
	status := HealthStatusHealthy
	message := fmt.Sprintf("%d engines registered", n)

	if n == 0 {
		status = HealthStatusUnhealthy
		message = "No game engines registered"
	} else if n < len(games.Modes()) {
		// Fewer engines than modes means some mode can never be played.
		status = HealthStatusDegraded
		message = fmt.Sprintf("Only %d engines for %d modes", n, len(games.Modes()))
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// checkDatabaseHealth checks database connectivity
func (s *Server) checkDatabaseHealth() HealthCheck {
	start := time.Now()

	status := HealthStatusHealthy
	message := "Database connection healthy"

	if s.db == nil {
		status = HealthStatusUnhealthy
		message = "Database not initialized"
	} else if err := s.db.Ping(); err != nil {
		status = HealthStatusUnhealthy
		message = "Database ping failed: " + err.Error()
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// getSystemInfo collects system information
func getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		MemoryAlloc:   m.Alloc,
		MemoryTotal:   m.TotalAlloc,
		MemorySys:     m.Sys,
		GCCycles:      m.NumGC,
	}
}
