package models

import "github.com/golang-jwt/jwt/v5"

// SupabaseClaims is the subset of Supabase Auth JWT claims the API relies on.
// See: https://supabase.com/docs/guides/auth/jwts
type SupabaseClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	Role      string `json:"role"` // "authenticated" or "anon"
	SessionID string `json:"session_id"`
}

// GetUserID returns the user id from the subject claim
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}
