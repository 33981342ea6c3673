package httputil

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code.
// The payload is marshaled first so an encoding failure never leaves a partial response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// RespondError writes {"error": message}
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondErrorWithExtras(w, status, message, nil)
}

// RespondErrorWithExtras writes {"error": message} plus extra top-level fields
func RespondErrorWithExtras(w http.ResponseWriter, status int, message string, extras map[string]interface{}) {
	body := make(map[string]interface{}, len(extras)+1)
	for k, v := range extras {
		body[k] = v
	}
	body["error"] = message

	payload, err := json.Marshal(body)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
