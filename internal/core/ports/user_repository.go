package ports

import (
	"context"
	"time"

	"github.com/99minutos/identity-gateway/internal/core/domain"
)

// UserRepository is the local profile store.
type UserRepository interface {
	// Create persists user. It returns domain.ErrUsernameTaken or
	// domain.ErrEmailTaken when either value is already stored.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername and FindByEmail return (nil, nil) when nothing matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	DeleteByID(ctx context.Context, id string) error
	ReplaceRoles(ctx context.Context, id string, roles []domain.Role) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	SetProvisioningStatus(ctx context.Context, id string, status domain.ProvisioningStatus) error
	ListAll(ctx context.Context) ([]*domain.User, error)
	// ListByProvisioningStatus returns records in status last updated before olderThan.
	ListByProvisioningStatus(ctx context.Context, status domain.ProvisioningStatus, olderThan time.Time) ([]*domain.User, error)
}
