package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newSecretVerifier(t *testing.T, issuer string) *TokenVerifier {
	t.Helper()
	v, err := NewTokenVerifier(VerifierConfig{Secret: "secret", Issuer: issuer, ClientID: "gateway"})
	if err != nil {
		t.Fatalf("NewTokenVerifier: %v", err)
	}
	return v
}

func runAuth(t *testing.T, v *TokenVerifier, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(v)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	signed := signHS256(t, "secret", jwt.MapClaims{
		"sub":                "f3a1",
		"preferred_username": "alice",
		"email":              "alice@x.com",
		"given_name":         "Alice",
		"family_name":        "A",
		"realm_access":       map[string]any{"roles": []string{"USER", "offline_access"}},
		"resource_access": map[string]any{
			"gateway": map[string]any{"roles": []string{"Manager"}},
			"other":   map[string]any{"roles": []string{"admin"}},
		},
		"roles": []string{"user"},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(newSecretVerifier(t, ""))(func(c echo.Context) error {
		called = true
		p := PrincipalFrom(c)
		if p == nil {
			t.Fatalf("principal not set")
		}
		if p.Username != "alice" || p.Email != "alice@x.com" || p.GivenName != "Alice" {
			t.Fatalf("unexpected principal: %+v", p)
		}
		want := []string{"user", "offline_access", "manager"}
		if !slices.Equal(p.Roles, want) {
			t.Fatalf("expected roles %v, got %v", want, p.Roles)
		}
		if p.HasAnyRole("ADMIN") {
			t.Fatalf("roles of other clients must be ignored")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	v := newSecretVerifier(t, "http://kc/realms/demo")
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signHS256(t, "other", jwt.MapClaims{"iss": "http://kc/realms/demo"})},
		{"expired", "Bearer " + signHS256(t, "secret", jwt.MapClaims{"iss": "http://kc/realms/demo", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"wrong issuer", "Bearer " + signHS256(t, "secret", jwt.MapClaims{"iss": "http://evil"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, called := runAuth(t, v, tt.header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	v, err := NewTokenVerifier(VerifierConfig{PublicKeyPEM: pemKey})
	if err != nil {
		t.Fatalf("NewTokenVerifier: %v", err)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "u1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, called := runAuth(t, v, "Bearer "+signed); !called {
		t.Fatalf("RS256 token should be accepted")
	}

	// An HS256 token must not pass an RS256 verifier.
	if rec, called := runAuth(t, v, "Bearer "+signHS256(t, "secret", jwt.MapClaims{})); called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("algorithm mismatch must be rejected")
	}
}

func TestNewTokenVerifier_NoKey(t *testing.T) {
	if _, err := NewTokenVerifier(VerifierConfig{}); err == nil {
		t.Fatalf("expected error without key material")
	}
}
