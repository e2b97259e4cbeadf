package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
	"github.com/99minutos/identity-gateway/internal/metrics"
)

const minPasswordLength = 6

var validate = validator.New()

// AuthService implements registration and login on top of the local profile
// store and the identity provider.
type AuthService struct {
	repo     ports.UserRepository
	idp      ports.IdentityProvider
	recorder ports.RegistrationRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(repo ports.UserRepository, idp ports.IdentityProvider, recorder ports.RegistrationRecorder, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		idp:      idp,
		recorder: recorder,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register runs RECEIVED → LOCAL_CREATED → REMOTE_CREATED. A failure of the
// local step aborts before the provider is contacted. A failure of the remote
// step leaves the local record in place, marked REMOTE_FAILED, and the user
// is returned together with the provisioning error.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	s.record(domain.RegistrationEvent{Username: in.Username, Email: in.Email, State: domain.RegistrationReceived})

	if err := validateRegistration(in); err != nil {
		s.fail(in, "", domain.StepValidate, err)
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	user, err := s.createLocal(ctx, in)
	if err != nil {
		s.fail(in, "", domain.StepLocalCreate, err)
		if errors.Is(err, domain.ErrConflict) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("local_failed").Inc()
		}
		return nil, err
	}
	s.record(domain.RegistrationEvent{UserID: user.ID, Username: user.Username, Email: user.Email, State: domain.RegistrationLocalCreated})

	// The provider account uses the email as its username so that a password
	// grant with the email succeeds regardless of realm login settings.
	err = s.idp.ProvisionRemoteUser(ctx, ports.RemoteUser{
		Username:  in.Email,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
	})
	if err != nil {
		s.markProvisioning(ctx, user, domain.ProvisioningRemoteFailed)
		s.fail(in, user.ID, domain.StepRemoteProvision, err)
		metrics.RegistrationsTotal.WithLabelValues("remote_failed").Inc()
		s.log.Error().Err(err).
			Str("user_id", user.ID).
			Str("username", user.Username).
			Msg("remote provisioning failed, local record kept")
		return user, fmt.Errorf("local record %s kept without provider account: %w", user.ID, err)
	}

	s.markProvisioning(ctx, user, domain.ProvisioningSynced)
	s.record(domain.RegistrationEvent{UserID: user.ID, Username: user.Username, Email: user.Email, State: domain.RegistrationRemoteCreated})
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *AuthService) createLocal(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	existing, err = s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	now := s.now()
	return s.repo.Create(ctx, &domain.User{
		ID:                 uuid.NewString(),
		Username:           in.Username,
		Email:              in.Email,
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		Roles:              []domain.Role{domain.RoleUser},
		Active:             true,
		ProvisioningStatus: domain.ProvisioningPendingRemote,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
}

func (s *AuthService) markProvisioning(ctx context.Context, user *domain.User, status domain.ProvisioningStatus) {
	if err := s.repo.SetProvisioningStatus(ctx, user.ID, status); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Str("status", string(status)).Msg("failed to update provisioning status")
		return
	}
	user.ProvisioningStatus = status
}

// Login forwards the credentials to the identity provider. Every failure is
// reported as domain.ErrInvalidCredentials; the cause is only logged.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	creds, err := s.idp.PasswordLogin(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		s.log.Debug().Err(err).Str("email", email).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return creds, nil
}

func (s *AuthService) fail(in ports.RegisterInput, userID string, step domain.RegistrationStep, err error) {
	s.record(domain.RegistrationEvent{
		UserID:   userID,
		Username: in.Username,
		Email:    in.Email,
		State:    domain.RegistrationFailed,
		Step:     step,
		Error:    err.Error(),
	})
}

func (s *AuthService) record(ev domain.RegistrationEvent) {
	if s.recorder == nil {
		return
	}
	ev.At = s.now()
	s.recorder.Enqueue(ev)
}

func validateRegistration(in ports.RegisterInput) error {
	switch {
	case in.Username == "":
		return domain.NewValidationError("username is required")
	case in.Email == "":
		return domain.NewValidationError("email is required")
	case strings.TrimSpace(in.FirstName) == "":
		return domain.NewValidationError("firstName is required")
	case strings.TrimSpace(in.LastName) == "":
		return domain.NewValidationError("lastName is required")
	case len(in.Password) < minPasswordLength:
		return domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if err := validate.Var(in.Email, "email"); err != nil {
		return domain.NewValidationError("email must be a valid email")
	}
	return nil
}
