package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/samuelcg20/Apt/internal/httputil"
	"github.com/samuelcg20/Apt/internal/metrics"

	"github.com/go-chi/chi/v5"
)

const checkTimeout = 2 * time.Second

// Check is one dependency probed by /ready
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Handler struct {
	checks  []Check
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandler(checks []Check, m *metrics.Metrics, logger *slog.Logger) *Handler {
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		names = append(names, c.Name)
	}
	if err := m.Health.RegisterDependencies(m.Meter(), names); err != nil {
		logger.Warn("failed to register dependency metrics", "error", err)
	}

	return &Handler{checks: checks, metrics: m, logger: logger}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready pings every dependency and answers 503 if any is down
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	failed := map[string]string{}
	for _, c := range h.checks {
		start := time.Now()
		err := c.Ping(ctx)
		h.metrics.Health.RecordDependencyCheck(ctx, c.Name, time.Since(start), err)
		if err != nil {
			h.logger.WarnContext(ctx, "dependency not ready", "dependency", c.Name, "error", err)
			failed[c.Name] = "unavailable"
		}
	}

	if len(failed) > 0 {
		httputil.RespondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Checks: failed})
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}
