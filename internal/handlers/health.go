package handlers

import (
	"context"
	"net/http"

	"github.com/cliptide/backend/internal/logging"
)

// HealthHandler reports process liveness and database reachability.
type HealthHandler struct {
	Ping func(ctx context.Context) error
}

// Check handles GET /api/v1/healthz.
func (h HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Ping != nil {
		if err := h.Ping(ctx); err != nil {
			logging.FromContext(ctx).Error("health check failed", "error", err)
			respondJSON(ctx, w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
