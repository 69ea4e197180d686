//go:build unit

package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/domain/service"
	"rental-storefront/internal/domain/waitlist"
	"rental-storefront/internal/pkg/errs"
	"rental-storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func TestBookingUseCase_ReserveOrQueue_ConfirmsWhenCapacityFree(t *testing.T) {
	t.Parallel()

	svc := newEquipmentService(t, 3)
	env := newTestEnv(svc)
	customerID := uuid.New()

	outcome, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID: customerID,
		ServiceID:  svc.ID(),
		Quantity:   2,
		Date:       bookingDate,
	})
	require.NoError(t, err)

	require.NotNil(t, outcome.Booking)
	assert.Nil(t, outcome.QueuedEntry)
	assert.Equal(t, booking.StatusConfirmed, outcome.Booking.Status())
	assert.Equal(t, booking.PaymentPartial, outcome.Booking.PaymentStatus())
	assert.Equal(t, 2, outcome.Booking.Quantity())
	assert.True(t, outcome.Booking.BookingDate().Equal(bookingDate))
	assert.Equal(t, int64(1000), outcome.Booking.PriceCents())
	assert.Equal(t, 1, env.notifier.countByTemplate("booking_confirmed"))
}

func TestBookingUseCase_ReserveOrQueue_AdmitsUpToQuantityThenQueues(t *testing.T) {
	t.Parallel()

	svc := newEquipmentService(t, 3)
	env := newTestEnv(svc)

	for i := 0; i < 3; i++ {
		outcome, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
			CustomerID: uuid.New(),
			ServiceID:  svc.ID(),
			Quantity:   1,
			Date:       bookingDate,
		})
		require.NoError(t, err)
		require.NotNil(t, outcome.Booking, "request %d should be admitted", i+1)
	}

	outcome, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID: uuid.New(),
		ServiceID:  svc.ID(),
		Quantity:   1,
		Date:       bookingDate,
	})
	require.NoError(t, err)

	assert.Nil(t, outcome.Booking)
	require.NotNil(t, outcome.QueuedEntry)
	assert.Equal(t, waitlist.StatusQueued, outcome.QueuedEntry.Status())
	assert.Equal(t, 3, env.bookings.capacityHoldCount())
	assert.Equal(t, 1, env.notifier.countByTemplate("waitlist_queued"))
}

func TestBookingUseCase_ReserveOrQueue_ConcurrentRequestsAdmitExactlyOne(t *testing.T) {
	t.Parallel()

	svc := newExclusiveService(t)
	env := newTestEnv(svc)

	const requests = 8
	outcomes := make([]usecase.ReserveOutcome, requests)
	errors := make([]error, requests)

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errors[i] = env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
				CustomerID: uuid.New(),
				ServiceID:  svc.ID(),
				Quantity:   1,
				Date:       bookingDate,
			})
		}(i)
	}
	wg.Wait()

	confirmed, queued := 0, 0
	for i := 0; i < requests; i++ {
		require.NoError(t, errors[i])
		switch {
		case outcomes[i].Booking != nil:
			confirmed++
		case outcomes[i].QueuedEntry != nil:
			queued++
		}
	}

	assert.Equal(t, 1, confirmed)
	assert.Equal(t, requests-1, queued)
	assert.Equal(t, 1, env.bookings.capacityHoldCount())
	assert.Equal(t, requests-1, env.entries.countByStatus(waitlist.StatusQueued))
}

func TestBookingUseCase_ReserveOrQueue_TruckConflictFallsBackToQueue(t *testing.T) {
	t.Parallel()

	svc, err := service.NewService("Stage Deck", "staging", service.KindEquipment, 2000, 120, true)
	require.NoError(t, err)
	seedQuantity(t, svc, 5)
	env := newTestEnv(svc)

	start := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	first, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID:              uuid.New(),
		ServiceID:               svc.ID(),
		Quantity:                1,
		Date:                    bookingDate,
		DeliveryStart:           &start,
		DeliveryDurationMinutes: 120,
	})
	require.NoError(t, err)
	require.NotNil(t, first.Booking)
	require.True(t, first.Booking.HasDelivery())

	// Plenty of stock left, but the one truck is taken for this slot.
	second, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID:              uuid.New(),
		ServiceID:               svc.ID(),
		Quantity:                1,
		Date:                    bookingDate,
		DeliveryStart:           &start,
		DeliveryDurationMinutes: 120,
	})
	require.NoError(t, err)
	assert.Nil(t, second.Booking)
	require.NotNil(t, second.QueuedEntry)
}

func TestBookingUseCase_ReserveOrQueue_RejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	svc := newEquipmentService(t, 3)
	env := newTestEnv(svc)

	_, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID: uuid.New(),
		ServiceID:  svc.ID(),
		Quantity:   0,
		Date:       bookingDate,
	})
	assert.True(t, errs.Is(err, errs.ErrDomainValidation))
}

func TestBookingUseCase_ReserveOrQueue_UnknownService(t *testing.T) {
	t.Parallel()

	env := newTestEnv()

	_, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID: uuid.New(),
		ServiceID:  uuid.New(),
		Quantity:   1,
		Date:       bookingDate,
	})
	assert.True(t, errs.Is(err, errs.ErrServiceNotFound))
}

func TestBookingUseCase_CancelBooking_OffersFreedSlotToWaitlist(t *testing.T) {
	t.Parallel()

	svc := newEquipmentService(t, 1)
	env := newTestEnv(svc)

	first, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID: uuid.New(),
		ServiceID:  svc.ID(),
		Quantity:   1,
		Date:       bookingDate,
	})
	require.NoError(t, err)
	require.NotNil(t, first.Booking)

	second, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID: uuid.New(),
		ServiceID:  svc.ID(),
		Quantity:   1,
		Date:       bookingDate,
	})
	require.NoError(t, err)
	require.NotNil(t, second.QueuedEntry)

	cancelled, err := env.booking.CancelBooking(context.Background(), first.Booking.ID())
	require.NoError(t, err)

	assert.Equal(t, booking.StatusCancelled, cancelled.Status())
	assert.Equal(t, 0, env.bookings.capacityHoldCount())
	assert.Equal(t, waitlist.StatusOffered, second.QueuedEntry.Status())
	require.NotNil(t, second.QueuedEntry.OfferExpiresAt())
	assert.True(t, second.QueuedEntry.OfferExpiresAt().Equal(env.clock.Now().Add(24*time.Hour)))
	assert.Equal(t, 1, env.notifier.countByTemplate("booking_cancelled"))
	assert.Equal(t, 1, env.notifier.countByTemplate("waitlist_offer"))
}

func TestBookingUseCase_CancelBooking_Unknown(t *testing.T) {
	t.Parallel()

	env := newTestEnv()

	_, err := env.booking.CancelBooking(context.Background(), uuid.New())
	assert.True(t, errs.Is(err, errs.ErrBookingNotFound))
}

func TestBookingUseCase_CancelBooking_TwiceFails(t *testing.T) {
	t.Parallel()

	svc := newEquipmentService(t, 2)
	env := newTestEnv(svc)

	outcome, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID: uuid.New(),
		ServiceID:  svc.ID(),
		Quantity:   1,
		Date:       bookingDate,
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Booking)

	_, err = env.booking.CancelBooking(context.Background(), outcome.Booking.ID())
	require.NoError(t, err)

	_, err = env.booking.CancelBooking(context.Background(), outcome.Booking.ID())
	assert.True(t, errs.Is(err, errs.ErrDomainValidation))
}

func TestBookingUseCase_CompleteBooking_ConsumesSupplyStock(t *testing.T) {
	t.Parallel()

	svc := newSupplyService(t, 10)
	env := newTestEnv(svc)

	outcome, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID: uuid.New(),
		ServiceID:  svc.ID(),
		Quantity:   4,
		Date:       bookingDate,
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Booking)
	assert.Equal(t, 10, svc.Quantity())

	completed, err := env.booking.CompleteBooking(context.Background(), outcome.Booking.ID())
	require.NoError(t, err)

	assert.Equal(t, booking.StatusCompleted, completed.Status())
	assert.Equal(t, 6, svc.Quantity())
	assert.Equal(t, 0, env.bookings.capacityHoldCount())
}

func TestBookingUseCase_CompleteBooking_EquipmentStaysOnShelf(t *testing.T) {
	t.Parallel()

	svc := newEquipmentService(t, 3)
	env := newTestEnv(svc)

	outcome, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID: uuid.New(),
		ServiceID:  svc.ID(),
		Quantity:   2,
		Date:       bookingDate,
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Booking)

	_, err = env.booking.CompleteBooking(context.Background(), outcome.Booking.ID())
	require.NoError(t, err)

	assert.Equal(t, 3, svc.Quantity())
	assert.Equal(t, 0, env.bookings.capacityHoldCount())
}

func TestBookingUseCase_CompleteBooking_RequiresConfirmed(t *testing.T) {
	t.Parallel()

	svc := newEquipmentService(t, 2)
	env := newTestEnv(svc)

	outcome, err := env.booking.ReserveOrQueue(context.Background(), usecase.ReserveOrQueueInput{
		CustomerID: uuid.New(),
		ServiceID:  svc.ID(),
		Quantity:   1,
		Date:       bookingDate,
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Booking)

	_, err = env.booking.CancelBooking(context.Background(), outcome.Booking.ID())
	require.NoError(t, err)

	_, err = env.booking.CompleteBooking(context.Background(), outcome.Booking.ID())
	assert.True(t, errs.Is(err, errs.ErrDomainValidation))
}
