package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
)

const testKID = "test-key"

func jwksServer(t *testing.T, pub *rsa.PublicKey) *httptest.Server {
	t.Helper()
	n := base64.RawURLEncoding.EncodeToString(pub.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes())
	body := fmt.Sprintf(`{"keys":[{"kty":"RSA","kid":%q,"alg":"RS256","use":"sig","n":%q,"e":%q}]}`, testKID, n, e)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
}

func sign(t *testing.T, key *rsa.PrivateKey, claims *models.SupabaseClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = testKID
	s, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestSupabaseJWTVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := jwksServer(t, &key.PublicKey)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v, err := NewJWTVerifier(ctx, srv.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}

	valid := func() *models.SupabaseClaims {
		return &models.SupabaseClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role: RequiredRole,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *models.SupabaseClaims)
		wantErr bool
	}{
		{name: "valid token"},
		{name: "expired", mutate: func(c *models.SupabaseClaims) { c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour)) }, wantErr: true},
		{name: "anonymous role", mutate: func(c *models.SupabaseClaims) { c.Role = "anon" }, wantErr: true},
		{name: "missing subject", mutate: func(c *models.SupabaseClaims) { c.Subject = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := valid()
			if tt.mutate != nil {
				tt.mutate(claims)
			}
			got, err := v.VerifyToken(sign(t, key, claims))
			if tt.wantErr {
				if err != domain.ErrUnauthorized {
					t.Fatalf("expected ErrUnauthorized, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("VerifyToken: %v", err)
			}
			if got.GetUserID() != "user-1" {
				t.Fatalf("user id = %q", got.GetUserID())
			}
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := v.VerifyToken("not.a.jwt"); err != domain.ErrUnauthorized {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}
