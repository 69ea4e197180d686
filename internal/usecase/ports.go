package usecase

import (
	"context"
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/domain/service"
	"rental-storefront/internal/domain/waitlist"

	"github.com/google/uuid"
)

type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*service.Service, error)
	FindActiveByCategory(ctx context.Context, category string) ([]*service.Service, error)
	ListActive(ctx context.Context) ([]*service.Service, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Save persists quantity and the full batch set; callers hold the
	// per-service inventory lock.
	Save(ctx context.Context, svc *service.Service) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
	// FindCapacityHolds returns confirmed bookings with partial/paid payment
	// for the exact (service, date) pair.
	FindCapacityHolds(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*booking.Booking, error)
	// FindScheduledDeliveries returns capacity-holding bookings that carry a
	// delivery window ending after the given instant.
	FindScheduledDeliveries(ctx context.Context, after time.Time) ([]*booking.Booking, error)
	CountRecentByService(ctx context.Context, serviceID uuid.UUID, since time.Time) (int, error)
	// ListCapacityHolds returns every capacity-holding booking, grouped work
	// for the reconciler.
	ListCapacityHolds(ctx context.Context) ([]*booking.Booking, error)
}

type WaitlistRepository interface {
	Create(ctx context.Context, e *waitlist.Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error)
	Update(ctx context.Context, e *waitlist.Entry) error
	// FindQueued returns queued entries for (service, date) ordered by
	// priority score descending, creation time ascending.
	FindQueued(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*waitlist.Entry, error)
	FindLapsedOffers(ctx context.Context, now time.Time) ([]*waitlist.Entry, error)
	FindStaleQueued(ctx context.Context, now time.Time) ([]*waitlist.Entry, error)
	PurgeTerminalBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// CustomerSnapshot is the read-only slice of the external customer directory
// the core needs for priority scoring and orphan checks.
type CustomerSnapshot struct {
	ID                uuid.UUID
	Role              string
	ConfirmedBookings int
}

type CustomerDirectory interface {
	Find(ctx context.Context, id uuid.UUID) (*CustomerSnapshot, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PaymentRecordStore answers whether a booking has a completed payment
// behind it. Payments themselves are an external collaborator.
type PaymentRecordStore interface {
	HasCompletedPayment(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

// Notifier is fire-and-forget; implementations log failures instead of
// returning them.
type Notifier interface {
	Notify(ctx context.Context, customerID uuid.UUID, templateKey, message string, metadata map[string]string)
}

// LockManager serializes conflicting critical sections under a scoped key.
type LockManager interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
