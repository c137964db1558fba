package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports liveness and, when Check is set, the state of the
// backing store.
type HealthHandler struct {
	Check func(ctx context.Context) error
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Check != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.Check(ctx); err != nil {
			log.Printf("health check failed: %v", err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
