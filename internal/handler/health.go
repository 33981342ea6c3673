package handler

import (
	"net/http"
	"time"

	"tenderly/internal/httputil"
)

// Health is a simple liveness check
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
