package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
)

// RequiredRole rejects anonymous Supabase sessions
const RequiredRole = "authenticated"

// SupabaseJWTVerifier implements JWTVerifier using JWKS from Supabase.
type SupabaseJWTVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWTVerifier fetches the public keys from the JWKS endpoint.
// Keys are cached and refreshed in the background until ctx is canceled.
func NewJWTVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (*SupabaseJWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &SupabaseJWTVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates the signature, expiry, algorithm, subject and role.
func (v *SupabaseJWTVerifier) VerifyToken(tokenString string) (*models.SupabaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SupabaseClaims{}, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.SupabaseClaims)
	if !ok {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	if claims.Role != RequiredRole {
		v.logger.Warn("token has invalid role", "role", claims.Role, "user_id", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
