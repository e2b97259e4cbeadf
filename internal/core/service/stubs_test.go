package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	createErr error
	statusErr error
	deleteErr map[string]error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), deleteErr: make(map[string]error)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = slices.Clone(u.Roles)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id string) error {
	if err := r.deleteErr[id]; err != nil {
		return err
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) ReplaceRoles(_ context.Context, id string, roles []domain.Role) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Roles = slices.Clone(roles)
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Active = active
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetProvisioningStatus(_ context.Context, id string, status domain.ProvisioningStatus) error {
	if r.statusErr != nil {
		return r.statusErr
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ProvisioningStatus = status
	return nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) ListByProvisioningStatus(_ context.Context, status domain.ProvisioningStatus, olderThan time.Time) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.ProvisioningStatus == status && u.UpdatedAt.Before(olderThan) {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Identity provider, recorder, journal and locker stubs
// ---------------------------------------------------------------------------

type stubIdentityProvider struct {
	loginFn     func(ctx context.Context, identifier, password string) (*domain.Credentials, error)
	provisionFn func(ctx context.Context, user ports.RemoteUser) error
	provisioned []ports.RemoteUser
}

func (p *stubIdentityProvider) PasswordLogin(ctx context.Context, identifier, password string) (*domain.Credentials, error) {
	return p.loginFn(ctx, identifier, password)
}

func (p *stubIdentityProvider) ProvisionRemoteUser(ctx context.Context, user ports.RemoteUser) error {
	p.provisioned = append(p.provisioned, user)
	if p.provisionFn == nil {
		return nil
	}
	return p.provisionFn(ctx, user)
}

type stubRecorder struct {
	mu     sync.Mutex
	events []domain.RegistrationEvent
}

func (r *stubRecorder) Enqueue(ev domain.RegistrationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *stubRecorder) states() []domain.RegistrationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RegistrationState, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.State)
	}
	return out
}

type stubJournal struct {
	byEmail map[string][]domain.RegistrationEvent
}

func (j *stubJournal) Record(_ context.Context, ev domain.RegistrationEvent) error {
	j.byEmail[ev.Email] = append(j.byEmail[ev.Email], ev)
	return nil
}

func (j *stubJournal) FindByEmail(_ context.Context, email string) ([]domain.RegistrationEvent, error) {
	return j.byEmail[email], nil
}

type stubLocker struct {
	held     bool
	lockErr  error
	unlocked int
}

func (l *stubLocker) TryLock(_ context.Context, _ string) (bool, error) {
	if l.lockErr != nil {
		return false, l.lockErr
	}
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *stubLocker) Unlock(_ context.Context, _ string) error {
	l.held = false
	l.unlocked++
	return nil
}
