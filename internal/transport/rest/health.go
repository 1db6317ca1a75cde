package rest

import (
	"context"
	"net/http"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 3 * time.Second

// HealthHandler serves the liveness, readiness and health probes.
type HealthHandler struct {
	db        pinger
	inference pinger
	version   string
}

// NewHealthHandler creates a HealthHandler. inference may be nil.
func NewHealthHandler(db, inference pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, inference: inference, version: version}
}

// HealthResponse is the body of every probe.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of one dependency.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready returns 503 when the database does not answer.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "down", Timestamp: time.Now()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Health checks every dependency. The database is required; an unreachable
// inference service degrades the status without failing the probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	components := map[string]CompStatus{"database": probe(ctx, h.db)}
	overall, status := "ok", http.StatusOK

	if components["database"].Status != "ok" {
		overall, status = "down", http.StatusServiceUnavailable
	}
	if h.inference != nil {
		components["inference"] = probe(ctx, h.inference)
		if components["inference"].Status != "ok" && overall == "ok" {
			overall = "degraded"
		}
	}

	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func probe(ctx context.Context, p pinger) CompStatus {
	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return CompStatus{Status: "down"}
	}
	return CompStatus{Status: "ok", Latency: time.Since(start).String()}
}
