package ports

import (
	"context"

	"github.com/99minutos/identity-gateway/internal/core/domain"
)

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type AuthService interface {
	// Register creates the local record and then the provider account. When the
	// provider step fails the local record is kept and the returned user is
	// non-nil alongside an error matching domain.ErrProvisioning.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.Credentials, error)
}
