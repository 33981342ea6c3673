package auth

import "tenderly/internal/domain/models"

// JWTVerifier validates bearer tokens.
// The middleware depends on this interface so tests can supply a fake.
type JWTVerifier interface {
	// VerifyToken returns the parsed claims, or domain.ErrUnauthorized
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)
}
