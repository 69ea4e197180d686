//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/domain/service"
	"rental-storefront/internal/pkg/clock"
	"rental-storefront/internal/pkg/config"
	"rental-storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testEnv wires the full use case graph over in-memory fakes and a mock
// clock.
type testEnv struct {
	services  *fakeServiceRepo
	bookings  *fakeBookingRepo
	entries   *fakeWaitlistRepo
	customers *fakeCustomerDirectory
	payments  *fakePaymentStore
	notifier  *fakeNotifier
	clock     *clock.MockClock

	availability *usecase.AvailabilityChecker
	ledger       *usecase.InventoryLedger
	delivery     *usecase.DeliveryScheduler
	queue        *usecase.ReservationQueue
	booking      *usecase.BookingUseCase
	reconciler   *usecase.ConsistencyReconciler
}

func newTestEnv(svcs ...*service.Service) *testEnv {
	cfg := config.NewTestConfig()
	env := &testEnv{
		services:  newFakeServiceRepo(svcs...),
		bookings:  newFakeBookingRepo(),
		entries:   newFakeWaitlistRepo(),
		customers: newFakeCustomerDirectory(),
		payments:  newFakePaymentStore(),
		notifier:  &fakeNotifier{},
		clock:     clock.NewMockClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
	}

	locks := newTestLockManager()
	env.availability = usecase.NewAvailabilityChecker(env.services, env.bookings)
	env.ledger = usecase.NewInventoryLedger(env.services, locks, env.clock)
	env.delivery = usecase.NewDeliveryScheduler(env.bookings, locks, env.clock, cfg.Delivery)
	env.queue = usecase.NewReservationQueue(
		env.entries, env.services, env.bookings, env.customers,
		env.availability, env.delivery,
		env.notifier, locks, env.clock, cfg.Waitlist,
	)
	env.booking = usecase.NewBookingUseCase(
		env.services, env.bookings, env.availability, env.ledger,
		env.delivery, env.queue, env.notifier, locks, env.clock,
	)
	env.reconciler = usecase.NewConsistencyReconciler(
		env.services, env.bookings, env.customers, env.payments,
		env.notifier, env.clock,
	)
	return env
}

// seedBooking plants a confirmed booking directly in the repository,
// bypassing admission, for tests that set up capacity state by hand.
func seedBooking(t *testing.T, env *testEnv, serviceID, customerID uuid.UUID, quantity int, payment booking.PaymentStatus, date time.Time) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(serviceID, customerID, quantity, date, payment, 0, nil, "", env.clock.Now())
	require.NoError(t, err)
	require.NoError(t, env.bookings.Create(context.Background(), b))
	return b
}

// seedQuantity gives a stocked service its opening stock through the batch
// path, keeping quantity and batch sum aligned.
func seedQuantity(t *testing.T, svc *service.Service, quantity int) {
	t.Helper()
	if quantity <= 0 {
		return
	}
	batch, err := service.NewBatch("initial", "acme", quantity, decimal.NewFromInt(100),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	require.NoError(t, svc.AddBatch(batch))
}

func newEquipmentService(t *testing.T, quantity int) *service.Service {
	t.Helper()
	svc, err := service.NewService("Folding Chair", "furnishings", service.KindEquipment, 500, 0, false)
	require.NoError(t, err)
	seedQuantity(t, svc, quantity)
	return svc
}

func newSupplyService(t *testing.T, quantity int) *service.Service {
	t.Helper()
	svc, err := service.NewService("Table Linens", "consumables", service.KindSupply, 300, 0, false)
	require.NoError(t, err)
	seedQuantity(t, svc, quantity)
	return svc
}

func newExclusiveService(t *testing.T) *service.Service {
	t.Helper()
	svc, err := service.NewService("Wedding Package", "events", service.KindTimeExclusive, 250000, 480, false)
	require.NoError(t, err)
	return svc
}
