package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/domain/delivery"
	"rental-storefront/internal/domain/service"
	"rental-storefront/internal/domain/waitlist"
	"rental-storefront/internal/infra"
	"rental-storefront/internal/infra/lock"
	"rental-storefront/internal/pkg/clock"
	"rental-storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReserveOrQueueInput struct {
	CustomerID uuid.UUID
	ServiceID  uuid.UUID
	Quantity   int
	Date       time.Time
	Urgency    waitlist.UrgencyTier
	Notes      string
	// Optional requested delivery slot; ignored when the service does not
	// need the truck.
	DeliveryStart           *time.Time
	DeliveryDurationMinutes int
}

// ReserveOutcome is either an admitted booking or a waitlist placement,
// never both and never neither.
type ReserveOutcome struct {
	Booking     *booking.Booking
	QueuedEntry *waitlist.Entry
}

// BookingUseCase orchestrates admission: lock, check, mutate inside the
// lock, or fall back to the waitlist.
type BookingUseCase struct {
	services     ServiceRepository
	bookings     BookingRepository
	availability *AvailabilityChecker
	ledger       *InventoryLedger
	delivery     *DeliveryScheduler
	queue        *ReservationQueue
	notifier     Notifier
	locks        LockManager
	clock        clock.Clock
}

func NewBookingUseCase(
	services ServiceRepository,
	bookings BookingRepository,
	availability *AvailabilityChecker,
	ledger *InventoryLedger,
	deliveryScheduler *DeliveryScheduler,
	queue *ReservationQueue,
	notifier Notifier,
	locks LockManager,
	clk clock.Clock,
) *BookingUseCase {
	return &BookingUseCase{
		services:     services,
		bookings:     bookings,
		availability: availability,
		ledger:       ledger,
		delivery:     deliveryScheduler,
		queue:        queue,
		notifier:     notifier,
		locks:        locks,
		clock:        clk,
	}
}

// ReserveOrQueue admits the request under the (service, date) lock or, when
// capacity or the lock cannot be had, places it on the waitlist. The caller
// always gets a placement of some form rather than a bare error.
func (u *BookingUseCase) ReserveOrQueue(ctx context.Context, input ReserveOrQueueInput) (ReserveOutcome, error) {
	if input.Quantity <= 0 {
		return ReserveOutcome{}, errs.Mark(errs.New("quantity must be positive"), errs.ErrDomainValidation)
	}

	date := booking.NormalizeDate(input.Date)
	var booked *booking.Booking

	err := u.locks.WithLock(ctx, lock.AdmissionKey(input.ServiceID, date), func(ctx context.Context) error {
		svc, err := u.loadService(ctx, input.ServiceID)
		if err != nil {
			return err
		}

		result, err := u.availability.CheckService(ctx, svc, date, input.Quantity)
		if err != nil {
			return err
		}
		if !result.Available {
			return errs.Mark(errs.New(result.Reason), errs.ErrAvailabilityConflict)
		}

		var window *delivery.Window
		if u.delivery.RequiresDelivery(svc) {
			window, err = u.admitDelivery(ctx, svc, date, input)
			if err != nil {
				return err
			}
		}

		now := u.clock.Now()
		price := bookingPrice(svc, date, now) * int64(input.Quantity)

		b, err := booking.NewBooking(
			input.ServiceID, input.CustomerID, input.Quantity, date,
			booking.PaymentPartial, price, window, input.Notes, now,
		)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		// Stock is not decremented here: availability counts capacity-holding
		// bookings against the authoritative total, so reducing the ledger on
		// admission would charge the same unit twice. The ledger moves when
		// stock physically does.
		if err := u.bookings.Create(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		booked = b
		return nil
	})

	if err != nil {
		if errs.Is(err, errs.ErrAvailabilityConflict) || errs.Is(err, errs.ErrLockAcquisitionFailed) {
			return u.fallBackToQueue(ctx, input, err)
		}
		return ReserveOutcome{}, err
	}

	u.notifier.Notify(ctx, input.CustomerID, "booking_confirmed",
		fmt.Sprintf("Your booking for %s is confirmed.", date.Format("2006-01-02")),
		map[string]string{"booking_id": booked.ID().String()},
	)
	return ReserveOutcome{Booking: booked}, nil
}

// CancelBooking releases the booking's capacity hold and offers the freed
// slot to the waitlist.
func (u *BookingUseCase) CancelBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := u.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	heldCapacity := b.HoldsCapacity()

	if err := b.Cancel(u.clock.Now()); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if err := u.bookings.Update(ctx, b); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if heldCapacity {
		u.releaseCapacity(ctx, b)
	}

	u.notifier.Notify(ctx, b.CustomerID(), "booking_cancelled",
		"Your booking was cancelled.",
		map[string]string{"booking_id": b.ID().String()},
	)
	return b, nil
}

// CompleteBooking closes out a finished rental; its date's capacity frees
// naturally because completed bookings no longer hold capacity. Consumable
// stock leaves the ledger here: a completed supply rental does not return to
// the shelf the way equipment does.
func (u *BookingUseCase) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := u.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	heldCapacity := b.HoldsCapacity()

	if err := b.Complete(u.clock.Now()); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if err := u.bookings.Update(ctx, b); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if svc, loadErr := u.loadService(ctx, b.ServiceID()); loadErr == nil && svc.Kind() == service.KindSupply {
		if _, err := u.ledger.ReduceQuantity(ctx, svc.ID(), b.Quantity()); err != nil {
			slog.Warn("failed to consume supply stock on completion",
				"booking_id", b.ID(), "error", err)
		}
	}

	if heldCapacity {
		u.releaseCapacity(ctx, b)
	}
	return b, nil
}

// releaseCapacity offers the freed slot to the waitlist. Best-effort after
// the status change has been committed; failures are logged for the
// reconciler to repair.
func (u *BookingUseCase) releaseCapacity(ctx context.Context, b *booking.Booking) {
	svc, err := u.loadService(ctx, b.ServiceID())
	if err != nil {
		slog.Warn("failed to load service during capacity release",
			"booking_id", b.ID(), "error", err)
		return
	}

	freed := b.Quantity()
	if !svc.Kind().IsStocked() {
		freed = 1
	}
	if err := u.queue.ProcessOnAvailability(ctx, b.ServiceID(), b.BookingDate(), freed); err != nil {
		slog.Warn("failed to notify waitlist of freed capacity",
			"booking_id", b.ID(), "error", err)
	}
}

func (u *BookingUseCase) admitDelivery(ctx context.Context, svc *service.Service, date time.Time, input ReserveOrQueueInput) (*delivery.Window, error) {
	spec := defaultDeliveryWindow(svc, date)
	if input.DeliveryStart != nil {
		spec.start = *input.DeliveryStart
		if input.DeliveryDurationMinutes > 0 {
			spec.durationMinutes = input.DeliveryDurationMinutes
		}
	}

	check, err := u.delivery.CheckAvailability(ctx, spec.start, spec.durationMinutes, 0)
	if err != nil {
		return nil, err
	}
	if !check.Available {
		return nil, errs.Mark(
			errs.New(fmt.Sprintf("delivery truck busy, next available %s", check.NextAvailableTime.Format(time.RFC3339))),
			errs.ErrAvailabilityConflict,
		)
	}

	window, err := delivery.NewWindow(spec.start, spec.durationMinutes)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	return &window, nil
}

func (u *BookingUseCase) fallBackToQueue(ctx context.Context, input ReserveOrQueueInput, cause error) (ReserveOutcome, error) {
	entry, err := u.queue.Enqueue(ctx, EnqueueInput{
		CustomerID: input.CustomerID,
		ServiceID:  input.ServiceID,
		Quantity:   input.Quantity,
		Date:       input.Date,
		Urgency:    input.Urgency,
		Notes:      input.Notes,
	})
	if err != nil {
		// Queueing failed on top of the admission failure: surface the
		// original cause, it is the actionable one.
		slog.Error("waitlist fallback failed", "service_id", input.ServiceID, "error", err)
		return ReserveOutcome{}, cause
	}
	return ReserveOutcome{QueuedEntry: entry}, nil
}

func (u *BookingUseCase) loadService(ctx context.Context, serviceID uuid.UUID) (*service.Service, error) {
	svc, err := u.services.FindByID(ctx, serviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrServiceNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return svc, nil
}

func (u *BookingUseCase) loadBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := u.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, nil
}
