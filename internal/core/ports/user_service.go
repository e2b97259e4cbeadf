package ports

import (
	"context"

	"github.com/99minutos/identity-gateway/internal/core/domain"
)

// CreateUserInput is the payload of direct (local only) user creation.
type CreateUserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// UserService defines the user management use cases.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ReplaceRoles(ctx context.Context, id string, roles []string) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	RegistrationHistory(ctx context.Context, id string) ([]domain.RegistrationEvent, error)
}
