package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ridesafe/identity/internal/identity/httpx"
	"github.com/ridesafe/identity/pkg/identitysdk"
)

// Pinger is satisfied by the store and the pending-enrollment cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KeySource reports whether third-party signing keys are loaded.
type KeySource interface {
	Ready() bool
}

const readyzTimeout = 2 * time.Second

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database and the enrollment cache. Google signing keys are reported but do not fail the probe,
//	@Description	since only Google sign-in depends on them.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	identitysdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	identitysdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, db, cache Pinger, google KeySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
		defer cancel()

		checks := &identitysdk.HealthChecks{Database: "ok", Cache: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := db.Ping(ctx); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		if err := cache.Ping(ctx); err != nil {
			checks.Cache = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		switch {
		case google == nil:
			checks.Google = "disabled"
		case google.Ready():
			checks.Google = "ok"
		default:
			checks.Google = "pending: no keys loaded"
		}

		httpx.WriteJSON(w, code, identitysdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
