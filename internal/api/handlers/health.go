package handlers

import (
	"net/http"
)

// HealthHandler provides a minimal liveness check endpoint that also names
// the configured data source.
type HealthHandler struct {
	Source string
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := map[string]string{"status": "ok", "source": h.Source}
	writeJSON(w, r, http.StatusOK, res)
}
