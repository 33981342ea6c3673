package middleware

import (
	"net/http"
	"strings"

	"tenderly/internal/auth"
	"tenderly/internal/httputil"
)

// Auth requires a valid "Authorization: Bearer <jwt>" header.
// The verified subject is stored with httputil.WithUserID.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
