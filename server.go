package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the node's metrics and a liveness probe over HTTP
type Server struct {
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	Version  string
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(s.Logger.Handler(), slog.LevelError),
	}))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.ServeHTTP(w, r)
}

// handleHealth reports that the process is up and which firmware it runs
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type HealthResponse struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Version: s.Version}); err != nil {
		s.Logger.Warn("Failed to write health response", "error", err)
	}
}
