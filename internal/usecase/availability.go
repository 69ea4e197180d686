package usecase

import (
	"context"
	"fmt"
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/domain/service"
	"rental-storefront/internal/infra"
	"rental-storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

// AvailabilityResult is a typed answer rather than a bare boolean so callers
// can fall back to waitlist placement with a reason attached.
type AvailabilityResult struct {
	Available         bool
	AvailableQuantity int
	Reason            string
}

// AvailabilityChecker answers capacity questions for a (service, date) pair.
// It is a pure read: callers that act on the answer must do the check and
// the subsequent mutation inside the same (service, date) lock, otherwise
// two concurrent callers can both observe "available" before either commits.
type AvailabilityChecker struct {
	services ServiceRepository
	bookings BookingRepository
}

func NewAvailabilityChecker(services ServiceRepository, bookings BookingRepository) *AvailabilityChecker {
	return &AvailabilityChecker{
		services: services,
		bookings: bookings,
	}
}

// Check dispatches on the service kind.
func (c *AvailabilityChecker) Check(ctx context.Context, serviceID uuid.UUID, date time.Time, quantity int) (AvailabilityResult, error) {
	svc, err := c.services.FindByID(ctx, serviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return AvailabilityResult{}, errs.Mark(err, errs.ErrServiceNotFound)
		}
		return AvailabilityResult{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return c.CheckService(ctx, svc, date, quantity)
}

// CheckService is Check for an already-loaded service, used inside locked
// sections that have loaded the aggregate themselves.
func (c *AvailabilityChecker) CheckService(ctx context.Context, svc *service.Service, date time.Time, quantity int) (AvailabilityResult, error) {
	if !svc.IsActive() {
		return AvailabilityResult{Reason: "service is retired"}, nil
	}

	switch {
	case svc.Kind().IsStocked():
		return c.checkStocked(ctx, svc, date, quantity)
	default:
		return c.checkExclusive(ctx, svc, date)
	}
}

// checkStocked sums capacity-holding bookings for the exact date against the
// service's authoritative total.
func (c *AvailabilityChecker) checkStocked(ctx context.Context, svc *service.Service, date time.Time, quantity int) (AvailabilityResult, error) {
	if quantity <= 0 {
		return AvailabilityResult{Reason: "requested quantity must be positive"}, nil
	}

	holds, err := c.bookings.FindCapacityHolds(ctx, svc.ID(), booking.NormalizeDate(date))
	if err != nil {
		return AvailabilityResult{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	booked := 0
	for _, b := range holds {
		booked += b.Quantity()
	}

	free := svc.Quantity() - booked
	if free < 0 {
		free = 0
	}

	if quantity > free {
		return AvailabilityResult{
			AvailableQuantity: free,
			Reason:            fmt.Sprintf("only %d of %d units free on this date", free, svc.Quantity()),
		}, nil
	}

	return AvailabilityResult{Available: true, AvailableQuantity: free}, nil
}

// checkExclusive: a time-exclusive service admits at most one capacity-holding
// booking per date.
func (c *AvailabilityChecker) checkExclusive(ctx context.Context, svc *service.Service, date time.Time) (AvailabilityResult, error) {
	holds, err := c.bookings.FindCapacityHolds(ctx, svc.ID(), booking.NormalizeDate(date))
	if err != nil {
		return AvailabilityResult{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if len(holds) > 0 {
		return AvailabilityResult{Reason: "date is already booked"}, nil
	}
	return AvailabilityResult{Available: true, AvailableQuantity: 1}, nil
}
