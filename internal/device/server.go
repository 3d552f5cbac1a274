package device

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Version is the firmware version reported by /api/status.
const Version = "1.0.0"

// Server exposes the analyzer over the device's REST API.
type Server struct {
	analyzer  *Analyzer
	startedAt time.Time
}

// NewServer wraps an analyzer for serving.
func NewServer(a *Analyzer) *Server {
	return &Server{analyzer: a, startedAt: time.Now()}
}

// SetupRoutes registers all API routes on mux.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/fft/start", s.handleStart)
	mux.HandleFunc("/api/fft/stop", s.handleStop)
	mux.HandleFunc("/api/fft/data", s.handleData)
	mux.HandleFunc("/api/fft/raw", s.handleRaw)
	mux.HandleFunc("/api/fft/settings", s.handleSettings)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]interface{}{
		"status":           "running",
		"analysis_running": s.analyzer.Running(),
		"uptime":           time.Since(s.startedAt).Seconds(),
		"version":          Version,
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	started := s.analyzer.Start()
	log.Printf("start requested: started=%v", started)
	writeJSON(w, map[string]interface{}{
		"success": started,
		"message": "Analysis started",
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	stopped := s.analyzer.Stop()
	log.Printf("stop requested: stopped=%v", stopped)
	writeJSON(w, map[string]interface{}{
		"success": stopped,
		"message": "Analysis stopped",
	})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.analyzer.Data())
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.analyzer.Raw())
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		BaseFreq   *float64 `json:"base_freq"`
		NoiseLevel *float64 `json:"noise_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.analyzer.UpdateSettings(req.BaseFreq, req.NoiseLevel)
	writeJSON(w, map[string]interface{}{
		"success": true,
		"message": "Settings updated",
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
