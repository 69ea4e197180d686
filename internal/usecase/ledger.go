package usecase

import (
	"context"
	"log/slog"
	"time"

	"rental-storefront/internal/domain/service"
	"rental-storefront/internal/infra"
	"rental-storefront/internal/infra/lock"
	"rental-storefront/internal/pkg/clock"
	"rental-storefront/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddBatchInput struct {
	BatchID   string
	Supplier  string
	Quantity  int
	UnitCost  decimal.Decimal
	ExpiresAt *time.Time
}

// InventoryLedger owns every mutation of a service's quantity and batches.
// Each operation loads the aggregate, applies the batch math and saves, all
// under the per-service inventory lock; the domain math itself is not
// thread-safe.
type InventoryLedger struct {
	services ServiceRepository
	locks    LockManager
	clock    clock.Clock
}

func NewInventoryLedger(services ServiceRepository, locks LockManager, clk clock.Clock) *InventoryLedger {
	return &InventoryLedger{
		services: services,
		locks:    locks,
		clock:    clk,
	}
}

func (l *InventoryLedger) AddBatch(ctx context.Context, serviceID uuid.UUID, input AddBatchInput) error {
	return l.locks.WithLock(ctx, lock.InventoryKey(serviceID), func(ctx context.Context) error {
		svc, err := l.loadService(ctx, serviceID)
		if err != nil {
			return err
		}

		batch, err := service.NewBatch(
			input.BatchID, input.Supplier, input.Quantity,
			input.UnitCost, l.clock.Now(), input.ExpiresAt,
		)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := svc.AddBatch(batch); err != nil {
			return errs.Mark(err, errs.ErrDuplicateBatch)
		}
		return l.saveService(ctx, svc)
	})
}

// ReduceQuantity consumes stock FIFO. A shortfall is reported through
// ErrInventoryUnderflow after stock has been floored at zero and persisted:
// the accounting violation is surfaced, never silently swallowed.
func (l *InventoryLedger) ReduceQuantity(ctx context.Context, serviceID uuid.UUID, amount int) (service.ReduceResult, error) {
	var result service.ReduceResult
	err := l.locks.WithLock(ctx, lock.InventoryKey(serviceID), func(ctx context.Context) error {
		svc, err := l.loadService(ctx, serviceID)
		if err != nil {
			return err
		}
		result, err = l.reduceLoaded(ctx, svc, amount)
		return err
	})
	return result, err
}

// reduceLoaded applies the reduction to an already-loaded, already-locked
// aggregate.
func (l *InventoryLedger) reduceLoaded(ctx context.Context, svc *service.Service, amount int) (service.ReduceResult, error) {
	result, err := svc.ReduceQuantity(amount)
	if err != nil {
		return service.ReduceResult{}, errs.Mark(err, errs.ErrDomainValidation)
	}
	if err := l.saveService(ctx, svc); err != nil {
		return service.ReduceResult{}, err
	}
	if result.Shortfall > 0 {
		slog.Error("inventory underflow",
			"service_id", svc.ID(), "requested", result.Requested, "shortfall", result.Shortfall)
		return result, errs.Mark(
			errs.New("stock reduction exceeded available quantity"),
			errs.ErrInventoryUnderflow,
		)
	}
	return result, nil
}

// RestoreQuantity returns stock LIFO, crediting the newest active batch or a
// synthetic restored batch when none remain.
func (l *InventoryLedger) RestoreQuantity(ctx context.Context, serviceID uuid.UUID, amount int) (service.RestoreResult, error) {
	var result service.RestoreResult
	err := l.locks.WithLock(ctx, lock.InventoryKey(serviceID), func(ctx context.Context) error {
		svc, err := l.loadService(ctx, serviceID)
		if err != nil {
			return err
		}
		result, err = svc.RestoreQuantity(amount, l.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		return l.saveService(ctx, svc)
	})
	return result, err
}

func (l *InventoryLedger) GetExpiringBatches(ctx context.Context, serviceID uuid.UUID, daysAhead int) ([]service.Batch, error) {
	svc, err := l.loadService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return svc.ExpiringBatches(l.clock.Now(), daysAhead), nil
}

func (l *InventoryLedger) GetExpiredBatches(ctx context.Context, serviceID uuid.UUID) ([]service.Batch, error) {
	svc, err := l.loadService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return svc.ExpiredBatches(l.clock.Now()), nil
}

func (l *InventoryLedger) loadService(ctx context.Context, serviceID uuid.UUID) (*service.Service, error) {
	svc, err := l.services.FindByID(ctx, serviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrServiceNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return svc, nil
}

func (l *InventoryLedger) saveService(ctx context.Context, svc *service.Service) error {
	if err := l.services.Save(ctx, svc); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
