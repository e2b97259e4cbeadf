package ports

import (
	"context"

	"github.com/99minutos/identity-gateway/internal/core/domain"
)

// RegistrationJournal persists registration state transitions.
type RegistrationJournal interface {
	Record(ctx context.Context, event domain.RegistrationEvent) error
	// FindByEmail returns the events recorded for email, oldest first.
	FindByEmail(ctx context.Context, email string) ([]domain.RegistrationEvent, error)
}

// RegistrationRecorder accepts journal events without blocking the caller.
type RegistrationRecorder interface {
	Enqueue(event domain.RegistrationEvent)
}

// Locker provides a best-effort distributed mutex.
type Locker interface {
	TryLock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
}
