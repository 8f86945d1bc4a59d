package http

import (
	"net/http"
	"time"

	"github.com/devfolio/devfolio/pkg/httpx"
)

func (h *Handlers) handleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        h.Version,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

// handleReadyz reports whether the service can actually do work: database
// reachable and at least one signing key loaded.
func (h *Handlers) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", "database unreachable")
		return
	}
	if !h.Keys.IsReady() {
		writeError(w, http.StatusServiceUnavailable, "not_ready", "no signing keys loaded")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
