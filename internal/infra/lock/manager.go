// Package lock provides scoped distributed mutual exclusion over a shared
// key/TTL store. Locks are a serialization aid, not a durability mechanism:
// the TTL bounds how long a crashed holder can block others, and when the
// backend is unreachable callers proceed without locking (availability over
// consistency) with the reconciler as the backstop for any resulting drift.
package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rental-storefront/internal/pkg/config"
	"rental-storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

// Store is the narrow slice of the lock backend the manager needs.
type Store interface {
	SetIfAbsent(ctx context.Context, key, ownerID string, ttl time.Duration) (bool, error)
	DeleteIfOwner(ctx context.Context, key, ownerID string) (bool, error)
}

type Manager struct {
	store       Store
	ttl         time.Duration
	maxAttempts int
	retryDelay  time.Duration
}

func NewManager(store Store, cfg config.LockConfig) *Manager {
	return &Manager{
		store:       store,
		ttl:         cfg.TTL,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
	}
}

// Acquire sets the key only if absent. A false return with nil error means
// the lock is held by someone else.
func (m *Manager) Acquire(ctx context.Context, key, ownerID string, ttl time.Duration) (bool, error) {
	return m.store.SetIfAbsent(ctx, key, ownerID, ttl)
}

// Release is an atomic compare-and-delete: it only succeeds while the caller
// still owns the key.
func (m *Manager) Release(ctx context.Context, key, ownerID string) (bool, error) {
	return m.store.DeleteIfOwner(ctx, key, ownerID)
}

// WithLock retries acquisition with linear backoff, runs fn once acquired and
// always attempts release afterward. When the backend errors (unreachable),
// fn runs without the lock rather than failing the operation; contention that
// survives all attempts returns ErrLockAcquisitionFailed.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	ownerID := uuid.NewString()

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		ok, err := m.store.SetIfAbsent(ctx, key, ownerID, m.ttl)
		if err != nil {
			slog.Warn("lock backend unavailable, proceeding without lock",
				"key", key, "error", err)
			return fn(ctx)
		}
		if ok {
			defer func() {
				released, relErr := m.store.DeleteIfOwner(context.WithoutCancel(ctx), key, ownerID)
				if relErr != nil {
					slog.Warn("failed to release lock", "key", key, "error", relErr)
				} else if !released {
					slog.Warn("lock expired before release", "key", key)
				}
			}()
			return fn(ctx)
		}

		if attempt < m.maxAttempts {
			select {
			case <-ctx.Done():
				return errs.Wrap(ctx.Err(), "lock wait cancelled")
			case <-time.After(time.Duration(attempt) * m.retryDelay):
			}
		}
	}

	return errs.Mark(
		errs.New(fmt.Sprintf("lock %q still held after %d attempts", key, m.maxAttempts)),
		errs.ErrLockAcquisitionFailed,
	)
}

// Lock keys are scoped per logical resource so unrelated operations never
// serialize against each other.

// AdmissionKey guards the check-then-act sequence for one (service, date).
func AdmissionKey(serviceID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("lock:admission:%s:%s", serviceID, date.UTC().Format("2006-01-02"))
}

// InventoryKey guards batch/quantity mutation for one service.
func InventoryKey(serviceID uuid.UUID) string {
	return fmt.Sprintf("lock:inventory:%s", serviceID)
}

// DeliveryKey guards the schedule of the single delivery truck.
func DeliveryKey() string {
	return "lock:delivery:truck"
}
