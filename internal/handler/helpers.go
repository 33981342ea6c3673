package handler

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tenderly/internal/domain"
	"tenderly/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Typed errors keep their own message even when wrapped; anything else,
// including upstream failures, becomes a 500 with the operation's fallback.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Message, conflictErr.Extra)
		return
	}

	var upstreamErr *domain.UpstreamError
	var httpErr domain.HTTPError
	if !errors.As(err, &upstreamErr) && errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	attrs := []any{"error", err, "path", r.URL.Path}
	if user := httputil.GetUserID(r); user != "" {
		attrs = append(attrs, "user_id", user)
	}
	logger.ErrorContext(r.Context(), fallback, attrs...)
	httputil.RespondError(w, http.StatusInternalServerError, fallback)
}

// decode parses the JSON body, writing the 400 itself.
// It reports false when the handler should stop.
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// validationMessage returns the first rule message for a single-field
// failure and the ozzo summary otherwise.
func validationMessage(err error) string {
	var errs validation.Errors
	if errors.As(err, &errs) && len(errs) == 1 {
		for _, fieldErr := range errs {
			return fieldErr.Error()
		}
	}
	return err.Error()
}
