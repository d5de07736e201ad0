package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// healthReport is the body of GET /health
type healthReport struct {
	Status             string  `json:"status"`
	Uptime             string  `json:"uptime"`
	Goroutines         int     `json:"goroutines"`
	HeapAllocMB        float64 `json:"heapAllocMb"`
	MemoryUsagePercent float64 `json:"memoryUsagePercent,omitempty"`
	CPUUsagePercent    float64 `json:"cpuUsagePercent,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	report := healthReport{
		Status:      "ok",
		Uptime:      time.Since(s.startedAt).Round(time.Second).String(),
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(memStats.HeapAlloc) / 1024 / 1024,
	}

	if vmem, err := mem.VirtualMemoryWithContext(r.Context()); err == nil {
		report.MemoryUsagePercent = vmem.UsedPercent
	}
	// interval 0 compares against the previous call and does not block
	if pct, err := cpu.PercentWithContext(r.Context(), 0, false); err == nil && len(pct) > 0 {
		report.CPUUsagePercent = pct[0]
	}

	respondWithJSON(w, http.StatusOK, report)
}
