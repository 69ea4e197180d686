package usecase

import (
	"context"
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/domain/delivery"
	"rental-storefront/internal/domain/service"
	"rental-storefront/internal/infra/lock"
	"rental-storefront/internal/pkg/clock"
	"rental-storefront/internal/pkg/config"
	"rental-storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

// Categories whose rentals have to go out on the truck even without an
// explicit delivery flag on the service.
var deliveryCategories = map[string]bool{
	"heavy-equipment": true,
	"furniture":       true,
	"staging":         true,
}

type DeliveryCheck struct {
	Available             bool
	ConflictingBookingIDs []uuid.UUID
	NextAvailableTime     time.Time
	WaitTimeMinutes       int
}

type TruckStatus struct {
	Busy             bool
	CurrentBookingID *uuid.UUID
	MinutesRemaining int
	NextDelivery     *delivery.Window
}

// DeliveryScheduler models the one physical truck as a single exclusive
// resource over time: a 1-server interval-admission test with a fixed
// post-service buffer. The schedule is read and written only under the
// global delivery lock.
type DeliveryScheduler struct {
	bookings      BookingRepository
	locks         LockManager
	clock         clock.Clock
	defaultBuffer time.Duration
}

func NewDeliveryScheduler(bookings BookingRepository, locks LockManager, clk clock.Clock, cfg config.DeliveryConfig) *DeliveryScheduler {
	return &DeliveryScheduler{
		bookings:      bookings,
		locks:         locks,
		clock:         clk,
		defaultBuffer: time.Duration(cfg.BufferMinutes) * time.Minute,
	}
}

// RequiresDelivery classifies by explicit flag, kind, then category.
func (s *DeliveryScheduler) RequiresDelivery(svc *service.Service) bool {
	if svc.RequiresDelivery() {
		return true
	}
	if svc.Kind() == service.KindEquipment && deliveryCategories[svc.Category()] {
		return true
	}
	return false
}

// CheckAvailability tests a requested window against every scheduled
// delivery. With bufferMinutes <= 0 the configured default applies.
func (s *DeliveryScheduler) CheckAvailability(ctx context.Context, requestedStart time.Time, durationMinutes, bufferMinutes int) (DeliveryCheck, error) {
	requested, err := delivery.NewWindow(requestedStart, durationMinutes)
	if err != nil {
		return DeliveryCheck{}, errs.Mark(err, errs.ErrDomainValidation)
	}
	buffer := s.buffer(bufferMinutes)

	var check DeliveryCheck
	lockErr := s.locks.WithLock(ctx, lock.DeliveryKey(), func(ctx context.Context) error {
		check, err = s.checkLocked(ctx, requested, buffer)
		return err
	})
	if lockErr != nil {
		return DeliveryCheck{}, lockErr
	}
	return check, nil
}

func (s *DeliveryScheduler) checkLocked(ctx context.Context, requested delivery.Window, buffer time.Duration) (DeliveryCheck, error) {
	scheduled, err := s.scheduledDeliveries(ctx)
	if err != nil {
		return DeliveryCheck{}, err
	}

	check := DeliveryCheck{Available: true}
	for _, b := range scheduled {
		w := *b.DeliveryWindow()
		if !requested.ConflictsWith(w, buffer) {
			continue
		}
		check.Available = false
		check.ConflictingBookingIDs = append(check.ConflictingBookingIDs, b.ID())
		if next := w.NextAvailableAfter(buffer); next.After(check.NextAvailableTime) {
			check.NextAvailableTime = next
		}
	}

	if !check.Available {
		wait := check.NextAvailableTime.Sub(requested.Start())
		if wait > 0 {
			check.WaitTimeMinutes = int(wait.Minutes())
		}
	}
	return check, nil
}

// CurrentStatus reports whether the truck is out right now and what comes
// next.
func (s *DeliveryScheduler) CurrentStatus(ctx context.Context) (TruckStatus, error) {
	now := s.clock.Now()

	var status TruckStatus
	err := s.locks.WithLock(ctx, lock.DeliveryKey(), func(ctx context.Context) error {
		scheduled, err := s.scheduledDeliveries(ctx)
		if err != nil {
			return err
		}

		for _, b := range scheduled {
			w := *b.DeliveryWindow()
			if w.Contains(now) {
				id := b.ID()
				status.Busy = true
				status.CurrentBookingID = &id
				status.MinutesRemaining = int(w.End().Sub(now).Minutes())
				return nil
			}
			if w.Start().After(now) && (status.NextDelivery == nil || w.Start().Before(status.NextDelivery.Start())) {
				next := w
				status.NextDelivery = &next
			}
		}
		return nil
	})
	if err != nil {
		return TruckStatus{}, err
	}
	return status, nil
}

func (s *DeliveryScheduler) scheduledDeliveries(ctx context.Context) ([]*booking.Booking, error) {
	scheduled, err := s.bookings.FindScheduledDeliveries(ctx, s.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return scheduled, nil
}

func (s *DeliveryScheduler) buffer(bufferMinutes int) time.Duration {
	if bufferMinutes <= 0 {
		return s.defaultBuffer
	}
	return time.Duration(bufferMinutes) * time.Minute
}
