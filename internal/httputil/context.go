package httputil

import (
	"context"
	"net/http"
)

type userKey struct{}

// WithUserID returns r carrying the verified token subject
func WithUserID(r *http.Request, subject string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey{}, subject))
}

// GetUserID is the subject stored by WithUserID. Requests on an open API
// (no JWKS configured) have none and get "".
func GetUserID(r *http.Request) string {
	if subject, ok := r.Context().Value(userKey{}).(string); ok {
		return subject
	}
	return ""
}
