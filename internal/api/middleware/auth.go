package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-gateway/internal/core/domain"
)

const principalKey = "principal"

// VerifierConfig selects how bearer tokens are checked. PublicKeyPEM (RS256,
// the provider's realm key) takes precedence over Secret (HS256).
type VerifierConfig struct {
	PublicKeyPEM string
	Secret       string
	Issuer       string
	// ClientID selects resource_access.<client>.roles. When empty, roles of
	// every client are collected.
	ClientID string
}

// TokenVerifier validates provider-issued access tokens and turns their
// claims into a domain.Principal.
type TokenVerifier struct {
	key      any
	method   jwt.SigningMethod
	parser   *jwt.Parser
	clientID string
}

func NewTokenVerifier(cfg VerifierConfig) (*TokenVerifier, error) {
	v := &TokenVerifier{clientID: cfg.ClientID}

	switch {
	case cfg.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(normalizePEM(cfg.PublicKeyPEM)))
		if err != nil {
			return nil, fmt.Errorf("parse provider public key: %w", err)
		}
		v.key, v.method = key, jwt.SigningMethodRS256
	case cfg.Secret != "":
		v.key, v.method = []byte(cfg.Secret), jwt.SigningMethodHS256
	default:
		return nil, errors.New("token verifier needs a public key or a secret")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	v.parser = jwt.NewParser(opts...)
	return v, nil
}

// normalizePEM accepts a bare base64 key as commonly copied from the
// provider's realm settings.
func normalizePEM(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-----BEGIN") {
		return s
	}
	return "-----BEGIN PUBLIC KEY-----\n" + s + "\n-----END PUBLIC KEY-----"
}

// Verify parses and validates raw and returns the caller identity.
func (v *TokenVerifier) Verify(raw string) (*domain.Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrAuthentication)
	}

	p := &domain.Principal{
		Subject:    stringClaim(claims, "sub"),
		Username:   stringClaim(claims, "preferred_username"),
		Email:      stringClaim(claims, "email"),
		GivenName:  stringClaim(claims, "given_name"),
		FamilyName: stringClaim(claims, "family_name"),
		Roles:      v.roles(claims),
	}
	if p.Username == "" {
		p.Username = p.Subject
	}
	return p, nil
}

func (v *TokenVerifier) roles(claims jwt.MapClaims) []string {
	var out []string
	add := func(list any) {
		items, _ := list.([]any)
		for _, it := range items {
			s, ok := it.(string)
			if !ok || s == "" {
				continue
			}
			s = strings.ToLower(s)
			if !containsString(out, s) {
				out = append(out, s)
			}
		}
	}

	if realm, ok := claims["realm_access"].(map[string]any); ok {
		add(realm["roles"])
	}
	if resources, ok := claims["resource_access"].(map[string]any); ok {
		for client, entry := range resources {
			if v.clientID != "" && client != v.clientID {
				continue
			}
			if m, ok := entry.(map[string]any); ok {
				add(m["roles"])
			}
		}
	}
	add(claims["roles"])
	return out
}

func stringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Auth validates the bearer token and injects the principal into context.
func Auth(v *TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			principal, err := v.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal stored by Auth, or nil.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

// SetPrincipal stores p on the context the way Auth does.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}
