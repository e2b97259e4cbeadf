package ports

import (
	"context"

	"github.com/99minutos/identity-gateway/internal/core/domain"
)

// RemoteUser carries the fields of an account created on the identity provider.
type RemoteUser struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// IdentityProvider is the external OpenID Connect provider.
type IdentityProvider interface {
	// PasswordLogin performs a resource-owner password grant. Any failure is
	// reported as domain.ErrAuthentication.
	PasswordLogin(ctx context.Context, identifier, password string) (*domain.Credentials, error)
	// ProvisionRemoteUser creates an enabled account with a permanent password.
	// Any failure is reported as domain.ErrProvisioning.
	ProvisionRemoteUser(ctx context.Context, user RemoteUser) error
}
