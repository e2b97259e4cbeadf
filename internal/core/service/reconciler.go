package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
	"github.com/99minutos/identity-gateway/internal/metrics"
)

const reconcileLockKey = "lock:reconcile:registrations"

// compensatedStatuses are the states a record is left in when its provider
// account was never created. PENDING_REMOTE past the grace period means the
// status write failed or the process died mid-registration.
var compensatedStatuses = []domain.ProvisioningStatus{
	domain.ProvisioningRemoteFailed,
	domain.ProvisioningPendingRemote,
}

// Reconciler compensates registrations whose provider account was never
// created: REMOTE_FAILED and PENDING_REMOTE records older than the grace
// period are deleted so the same username and email can register again.
type Reconciler struct {
	repo     ports.UserRepository
	locker   ports.Locker
	recorder ports.RegistrationRecorder
	grace    time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewReconciler(repo ports.UserRepository, locker ports.Locker, recorder ports.RegistrationRecorder, grace time.Duration, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		repo:     repo,
		locker:   locker,
		recorder: recorder,
		grace:    grace,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run calls RunOnce every interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.log.Error().Err(err).Msg("reconciliation pass failed")
			}
		}
	}
}

// RunOnce performs a single pass and returns the number of records removed.
// It does nothing when another replica holds the lock.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	if r.locker != nil {
		ok, err := r.locker.TryLock(ctx, reconcileLockKey)
		if err != nil {
			return 0, err
		}
		if !ok {
			r.log.Debug().Msg("reconciliation skipped, lock held elsewhere")
			return 0, nil
		}
		defer func() {
			if err := r.locker.Unlock(context.WithoutCancel(ctx), reconcileLockKey); err != nil {
				r.log.Warn().Err(err).Msg("failed to release reconciliation lock")
			}
		}()
	}

	cutoff := r.now().Add(-r.grace)
	var stale []*domain.User
	for _, status := range compensatedStatuses {
		users, err := r.repo.ListByProvisioningStatus(ctx, status, cutoff)
		if err != nil {
			return 0, err
		}
		stale = append(stale, users...)
	}

	removed := 0
	for _, u := range stale {
		if err := r.repo.DeleteByID(ctx, u.ID); err != nil {
			metrics.ReconciledUsersTotal.WithLabelValues("error").Inc()
			r.log.Warn().Err(err).Str("user_id", u.ID).Msg("failed to remove unprovisioned user")
			continue
		}
		removed++
		metrics.ReconciledUsersTotal.WithLabelValues("deleted").Inc()
		if r.recorder != nil {
			r.recorder.Enqueue(domain.RegistrationEvent{
				UserID:   u.ID,
				Username: u.Username,
				Email:    u.Email,
				State:    domain.RegistrationCompensated,
				Step:     domain.StepRemoteProvision,
				At:       r.now(),
			})
		}
	}

	if removed > 0 {
		r.log.Info().Int("removed", removed).Msg("reconciliation pass finished")
	}
	return removed, nil
}
