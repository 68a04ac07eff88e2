package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

type statusResponse struct {
	Status     string  `json:"status"`
	UptimeSecs float64 `json:"uptime_secs"`
	Rules      int     `json:"rules"`
	Inputs     int     `json:"inputs"`
	Outputs    int     `json:"outputs"`
	Goroutines int     `json:"goroutines"`

	CPUPercent float64 `json:"cpu_percent,omitempty"`
	MemPercent float64 `json:"mem_percent,omitempty"`
	MemUsedMB  float64 `json:"mem_used_mb,omitempty"`
}

// handleStatus reports engine shape plus host utilization. Host probes are
// best effort: a failing probe leaves its fields zero instead of erroring the
// whole endpoint.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	engine := s.source.Engine()
	resp := statusResponse{
		Status:     "ok",
		UptimeSecs: time.Since(s.started).Seconds(),
		Rules:      len(engine.Rules()),
		Inputs:     len(engine.Inputs()),
		Outputs:    len(engine.Outputs()),
		Goroutines: runtime.NumGoroutine(),
	}

	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		resp.CPUPercent = pcts[0]
	} else if err != nil {
		s.log.Debug("cpu probe failed", "error", err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.MemPercent = vm.UsedPercent
		resp.MemUsedMB = float64(vm.Used) / (1024 * 1024)
	} else {
		s.log.Debug("memory probe failed", "error", err)
	}

	writeJSON(w, http.StatusOK, resp)
}
