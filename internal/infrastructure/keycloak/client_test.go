package keycloak

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
)

type fakeProvider struct {
	t           *testing.T
	created     []userRepresentation
	adminGrants []string
	createCode  int
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /realms/demo/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(f.t, r.ParseForm())
		assert.Equal(f.t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(f.t, "gateway", r.PostForm.Get("client_id"))
		assert.Equal(f.t, "gateway-secret", r.PostForm.Get("client_secret"))

		if r.PostForm.Get("username") != "alice@x.com" || r.PostForm.Get("password") != "secret1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid user credentials"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"user-token","refresh_token":"refresh","token_type":"Bearer","expires_in":300}`))
	})

	mux.HandleFunc("POST /realms/master/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(f.t, r.ParseForm())
		f.adminGrants = append(f.adminGrants, r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"admin-token","token_type":"Bearer","expires_in":60}`))
	})

	mux.HandleFunc("POST /admin/realms/demo/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "Bearer admin-token", r.Header.Get("Authorization"))
		var u userRepresentation
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&u))
		f.created = append(f.created, u)
		if f.createCode != 0 {
			w.WriteHeader(f.createCode)
			_, _ = w.Write([]byte(`{"errorMessage":"User exists with same username"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	return mux
}

func newTestClient(t *testing.T, f *fakeProvider, mutate func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:       srv.URL,
		Realm:         "demo",
		ClientID:      "gateway",
		ClientSecret:  "gateway-secret",
		AdminClientID: "admin-cli",
		AdminUsername: "admin",
		AdminPassword: "admin",
		Timeout:       2 * time.Second,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestClient_PasswordLogin(t *testing.T) {
	f := &fakeProvider{t: t}
	c := newTestClient(t, f, nil)

	creds, err := c.PasswordLogin(t.Context(), "alice@x.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "user-token", creds.AccessToken)
	assert.Equal(t, "refresh", creds.RefreshToken)
	assert.Equal(t, "Bearer", creds.TokenType)
	assert.InDelta(t, 300, creds.ExpiresIn, 1)
}

func TestClient_PasswordLogin_Rejected(t *testing.T) {
	f := &fakeProvider{t: t}
	c := newTestClient(t, f, nil)

	_, err := c.PasswordLogin(t.Context(), "alice@x.com", "wrong")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestClient_PasswordLogin_Unreachable(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Realm: "demo", Timeout: time.Second}, zerolog.Nop())

	_, err := c.PasswordLogin(t.Context(), "a@x.com", "secret1")

	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestClient_ProvisionRemoteUser(t *testing.T) {
	f := &fakeProvider{t: t}
	c := newTestClient(t, f, nil)

	err := c.ProvisionRemoteUser(t.Context(), ports.RemoteUser{
		Username: "alice@x.com", Email: "alice@x.com", FirstName: "Alice", LastName: "A", Password: "secret1",
	})

	require.NoError(t, err)
	require.Len(t, f.created, 1)
	u := f.created[0]
	assert.Equal(t, "alice@x.com", u.Username)
	assert.True(t, u.Enabled)
	assert.True(t, u.EmailVerified)
	require.Len(t, u.Credentials, 1)
	assert.Equal(t, credentialRepresentation{Type: "password", Value: "secret1", Temporary: false}, u.Credentials[0])
	assert.Equal(t, []string{"password"}, f.adminGrants)
}

func TestClient_ProvisionRemoteUser_ServiceAccount(t *testing.T) {
	f := &fakeProvider{t: t}
	c := newTestClient(t, f, func(cfg *Config) { cfg.AdminClientSecret = "svc-secret" })

	require.NoError(t, c.ProvisionRemoteUser(t.Context(), ports.RemoteUser{Username: "b@x.com", Email: "b@x.com", Password: "secret1"}))
	assert.Equal(t, []string{"client_credentials"}, f.adminGrants)
}

func TestClient_ProvisionRemoteUser_Conflict(t *testing.T) {
	f := &fakeProvider{t: t, createCode: http.StatusConflict}
	c := newTestClient(t, f, nil)

	err := c.ProvisionRemoteUser(t.Context(), ports.RemoteUser{Username: "c@x.com", Email: "c@x.com", Password: "secret1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvisioning)
	assert.True(t, strings.Contains(err.Error(), "User exists with same username"))
}

func TestClient_ProvisionRemoteUser_AdminTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized_client"}`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Config{BaseURL: srv.URL, Realm: "demo", AdminClientID: "admin-cli", AdminUsername: "admin", AdminPassword: "bad"}, zerolog.Nop())

	err := c.ProvisionRemoteUser(t.Context(), ports.RemoteUser{Username: "d@x.com", Email: "d@x.com", Password: "secret1"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProvisioning))
	assert.Contains(t, err.Error(), "admin token")
}
