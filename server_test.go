package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"i4.energy/across/plantnode/node"
)

func newTestServer() (*Server, *node.Metrics) {
	registry := prometheus.NewRegistry()
	metrics := node.NewMetrics(registry)
	return &Server{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Gatherer: registry,
		Version:  "1.0",
	}, metrics
}

func TestServerMetrics(t *testing.T) {
	s, metrics := newTestServer()
	metrics.Commands.WithLabelValues("ping", "ok").Inc()
	metrics.SoilMoisture.Set(2310)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`plantnode_commands_total{command="ping",status="ok"} 1`,
		`plantnode_soil_moisture_raw 2310`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}

func TestServerHealth(t *testing.T) {
	s, _ := newTestServer()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var resp struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "1.0" {
		t.Errorf("unexpected health response %+v", resp)
	}
}

func TestServerRejectsOtherRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{name: "Unknown path", method: http.MethodGet, path: "/sms", status: http.StatusNotFound},
		{name: "Wrong method", method: http.MethodPost, path: "/healthz", status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer()
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}
