package http

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheusfi/prometheus/pkg/apisdk"
	"github.com/prometheusfi/prometheus/pkg/httpx"
)

// Pinger is the part of the store readyz needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Signer reports whether signing keys are loaded.
type Signer interface {
	IsReady() bool
}

// LivezHandler always answers 200 while the process is serving.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, apisdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler answers 503 when the database or the signing keys are unavailable.
func ReadyzHandler(startTime time.Time, version string, db Pinger, keys Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &apisdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := db.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.NoCache(w)
		httpx.WriteJSON(w, statusCode, apisdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
