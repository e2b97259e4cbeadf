// Package keycloak talks to a Keycloak-compatible OpenID Connect provider:
// password-grant login for end users and account creation through the admin
// REST API.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
	"github.com/99minutos/identity-gateway/internal/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

var _ ports.IdentityProvider = (*Client)(nil)

// Config holds the provider endpoints and credentials.
type Config struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string

	// AdminRealm, AdminClientID, AdminUsername and AdminPassword drive the
	// password grant used to obtain an admin token. When AdminClientSecret is
	// set a client-credentials grant with AdminClientID is used instead.
	AdminRealm        string
	AdminClientID     string
	AdminClientSecret string
	AdminUsername     string
	AdminPassword     string

	Timeout time.Duration
}

// Client implements ports.IdentityProvider.
type Client struct {
	cfg        Config
	login      *oauth2.Config
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.AdminRealm == "" {
		cfg.AdminRealm = fallbackRealm
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg: cfg,
		login: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL(cfg.BaseURL, cfg.Realm),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

func tokenURL(base, realm string) string {
	return base + "/realms/" + url.PathEscape(realm) + "/protocol/openid-connect/token"
}

// withHTTPClient makes oauth2 use the client carrying the configured timeout.
func (c *Client) withHTTPClient(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), cancel
}

// PasswordLogin exchanges the user's credentials for tokens.
func (c *Client) PasswordLogin(ctx context.Context, identifier, password string) (*domain.Credentials, error) {
	ctx, cancel := c.withHTTPClient(ctx)
	defer cancel()

	start := time.Now()
	tok, err := c.login.PasswordCredentialsToken(ctx, identifier, password)
	observe("password_login", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAuthentication, describe(err))
	}

	creds := &domain.Credentials{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    expiresIn(tok),
	}
	if creds.TokenType == "" {
		creds.TokenType = "Bearer"
	}
	return creds, nil
}

type credentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type userRepresentation struct {
	Username      string                     `json:"username"`
	Email         string                     `json:"email"`
	FirstName     string                     `json:"firstName"`
	LastName      string                     `json:"lastName"`
	Enabled       bool                       `json:"enabled"`
	EmailVerified bool                       `json:"emailVerified"`
	Credentials   []credentialRepresentation `json:"credentials"`
}

// ProvisionRemoteUser creates an enabled, verified account with a permanent
// password in the configured realm.
func (c *Client) ProvisionRemoteUser(ctx context.Context, user ports.RemoteUser) error {
	ctx, cancel := c.withHTTPClient(ctx)
	defer cancel()

	start := time.Now()
	adminToken, err := c.adminToken(ctx)
	observe("admin_token", start, err)
	if err != nil {
		return fmt.Errorf("%w: admin token: %s", domain.ErrProvisioning, describe(err))
	}

	body, err := json.Marshal(userRepresentation{
		Username:      user.Username,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Enabled:       true,
		EmailVerified: true,
		Credentials:   []credentialRepresentation{{Type: "password", Value: user.Password, Temporary: false}},
	})
	if err != nil {
		return fmt.Errorf("%w: encode user: %v", domain.ErrProvisioning, err)
	}

	endpoint := c.cfg.BaseURL + "/admin/realms/" + url.PathEscape(c.cfg.Realm) + "/users"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrProvisioning, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start = time.Now()
	resp, err := oauth2.NewClient(ctx, oauth2.StaticTokenSource(adminToken)).Do(req)
	if err != nil {
		observe("create_user", start, err)
		return fmt.Errorf("%w: create user: %v", domain.ErrProvisioning, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		observe("create_user", start, errors.New(resp.Status))
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: create user returned %d: %s", domain.ErrProvisioning, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	observe("create_user", start, nil)

	c.log.Debug().Str("username", user.Username).Str("realm", c.cfg.Realm).Msg("provider account created")
	return nil
}

func (c *Client) adminToken(ctx context.Context) (*oauth2.Token, error) {
	adminTokenURL := tokenURL(c.cfg.BaseURL, c.cfg.AdminRealm)

	if c.cfg.AdminClientSecret != "" {
		cc := clientcredentials.Config{
			ClientID:     c.cfg.AdminClientID,
			ClientSecret: c.cfg.AdminClientSecret,
			TokenURL:     adminTokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		return cc.Token(ctx)
	}

	admin := &oauth2.Config{
		ClientID: c.cfg.AdminClientID,
		Endpoint: oauth2.Endpoint{TokenURL: adminTokenURL, AuthStyle: oauth2.AuthStyleInParams},
	}
	return admin.PasswordCredentialsToken(ctx, c.cfg.AdminUsername, c.cfg.AdminPassword)
}

// describe extracts the provider response body from token errors.
func describe(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		body := strings.TrimSpace(string(re.Body))
		if body == "" {
			return re.Response.Status
		}
		return fmt.Sprintf("%d: %s", re.Response.StatusCode, body)
	}
	return err.Error()
}

func expiresIn(tok *oauth2.Token) int {
	if tok.ExpiresIn > 0 {
		return int(tok.ExpiresIn)
	}
	if v, ok := tok.Extra("expires_in").(float64); ok {
		return int(v)
	}
	if !tok.Expiry.IsZero() {
		return int(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}
	return 0
}

func observe(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ProviderRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
