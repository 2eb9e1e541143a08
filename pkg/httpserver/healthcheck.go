package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/hrportal/pkg/logger"
)

// Check is a named readiness probe.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheckHandler serves liveness when no checks are given ("alive") and
// readiness otherwise ("ready", or "not_ready" with status 503 when any
// probe fails).
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		report := healthReport{Status: "alive"}
		status := http.StatusOK

		if len(checks) > 0 {
			report.Status = "ready"
			report.Checks = make(map[string]string, len(checks))
			for _, c := range checks {
				if err := c.Probe(r.Context()); err != nil {
					log.ErrorContext(r.Context(), "readiness check failed", slog.String("check", c.Name), logger.Error(err))
					report.Checks[c.Name] = "fail"
					report.Status = "not_ready"
					status = http.StatusServiceUnavailable
					continue
				}
				report.Checks[c.Name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	}
}
