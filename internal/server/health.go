package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Pavanreddy56/BKI-company/internal/response"
)

const (
	serviceName    = "bki-server"
	serviceVersion = "1.0.0"
)

// handleHealth is the public liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   serviceName,
		"version":   serviceVersion,
		"storage":   s.mode,
	})
}

// handleAdminHealth adds a storage connectivity probe and process stats.
func (s *Server) handleAdminHealth(w http.ResponseWriter, r *http.Request) {
	storageStatus := "ok"
	code := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		storageStatus = "unreachable"
		code = http.StatusServiceUnavailable
	} else if _, err := s.store.GetAllSettings(r.Context()); err != nil {
		storageStatus = "degraded"
		code = http.StatusServiceUnavailable
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	response.JSON(w, code, map[string]interface{}{
		"status":        storageStatus,
		"timestamp":     time.Now().UTC(),
		"service":       serviceName,
		"version":       serviceVersion,
		"storage":       s.mode,
		"uptimeSeconds": int64(time.Since(s.start).Seconds()),
		"goroutines":    runtime.NumGoroutine(),
		"heapAllocMB":   mem.HeapAlloc / (1024 * 1024),
	})
}
