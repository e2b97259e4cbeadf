package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
)

// UserService implements user management over the local profile store.
type UserService struct {
	repo    ports.UserRepository
	journal ports.RegistrationJournal
	log     zerolog.Logger
	now     func() time.Time
}

func NewUserService(repo ports.UserRepository, journal ports.RegistrationJournal, log zerolog.Logger) *UserService {
	return &UserService{
		repo:    repo,
		journal: journal,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a local record only; no identity provider account is made.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" {
		return nil, domain.NewValidationError("username and email are required")
	}
	if err := validate.Var(in.Email, "email"); err != nil {
		return nil, domain.NewValidationError("email must be a valid email")
	}

	if u, err := s.repo.FindByUsername(ctx, in.Username); err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	} else if u != nil {
		return nil, domain.ErrUsernameTaken
	}
	if u, err := s.repo.FindByEmail(ctx, in.Email); err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	} else if u != nil {
		return nil, domain.ErrEmailTaken
	}

	now := s.now()
	user, err := s.repo.Create(ctx, &domain.User{
		ID:                 uuid.NewString(),
		Username:           in.Username,
		Email:              in.Email,
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		Roles:              []domain.Role{domain.RoleUser},
		Active:             true,
		ProvisioningStatus: domain.ProvisioningLocalOnly,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user created")
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrUserNotFound
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// ReplaceRoles overwrites the role set. Replacing with the same set twice
// yields the same stored set.
func (s *UserService) ReplaceRoles(ctx context.Context, id string, names []string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	roles := make([]domain.Role, 0, len(names))
	for _, n := range names {
		r, err := domain.ParseRole(n)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}

	user, err := s.repo.ReplaceRoles(ctx, id, domain.NormalizeRoles(roles))
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Interface("roles", user.Roles).Msg("roles replaced")
	return user, nil
}

func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Bool("active", active).Msg("activation changed")
	return user, nil
}

// RegistrationHistory returns the journal entries recorded for the user's email.
func (s *UserService) RegistrationHistory(ctx context.Context, id string) ([]domain.RegistrationEvent, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.journal == nil {
		return []domain.RegistrationEvent{}, nil
	}
	return s.journal.FindByEmail(ctx, user.Email)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
