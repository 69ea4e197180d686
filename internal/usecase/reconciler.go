package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/infra"
	"rental-storefront/internal/pkg/clock"
	"rental-storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReconcileIssue struct {
	Kind        string
	Description string
}

type ReconcileFix struct {
	Kind   string
	Before string
	After  string
}

type ReconcileReport struct {
	Issues []ReconcileIssue
	Fixes  []ReconcileFix
}

// ConsistencyReconciler detects and repairs drift between recorded bookings
// and authoritative inventory: overbooking, orphaned references, payment
// mismatches and batch-sum drift. It never deletes data silently; every
// correction is logged with a before/after description.
type ConsistencyReconciler struct {
	services  ServiceRepository
	bookings  BookingRepository
	customers CustomerDirectory
	payments  PaymentRecordStore
	notifier  Notifier
	clock     clock.Clock
}

func NewConsistencyReconciler(
	services ServiceRepository,
	bookings BookingRepository,
	customers CustomerDirectory,
	payments PaymentRecordStore,
	notifier Notifier,
	clk clock.Clock,
) *ConsistencyReconciler {
	return &ConsistencyReconciler{
		services:  services,
		bookings:  bookings,
		customers: customers,
		payments:  payments,
		notifier:  notifier,
		clock:     clk,
	}
}

// Reconcile runs every detector and applies repairs. Orphans and payment
// mismatches go first since both release phantom capacity that would
// otherwise read as overbooking.
func (r *ConsistencyReconciler) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	holds, err := r.bookings.ListCapacityHolds(ctx)
	if err != nil {
		return report, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	holds, err = r.repairOrphans(ctx, holds, &report)
	if err != nil {
		return report, err
	}
	holds, err = r.repairPaymentMismatches(ctx, holds, &report)
	if err != nil {
		return report, err
	}
	if err := r.repairOverbooking(ctx, holds, &report); err != nil {
		return report, err
	}
	if err := r.repairBatchDrift(ctx, &report); err != nil {
		return report, err
	}

	slog.Info("reconciliation finished",
		"issues", len(report.Issues), "fixes", len(report.Fixes))
	return report, nil
}

// repairOrphans cancels bookings pointing at deleted services or customers;
// dangling references are never left in place.
func (r *ConsistencyReconciler) repairOrphans(ctx context.Context, holds []*booking.Booking, report *ReconcileReport) ([]*booking.Booking, error) {
	now := r.clock.Now()
	kept := holds[:0]

	for _, b := range holds {
		orphanedBy := ""

		svcExists, err := r.services.Exists(ctx, b.ServiceID())
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !svcExists {
			orphanedBy = "service"
		} else {
			custExists, err := r.customers.Exists(ctx, b.CustomerID())
			if err != nil {
				return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if !custExists {
				orphanedBy = "customer"
			}
		}

		if orphanedBy == "" {
			kept = append(kept, b)
			continue
		}

		report.Issues = append(report.Issues, ReconcileIssue{
			Kind:        "orphaned_reference",
			Description: fmt.Sprintf("booking %s references deleted %s", b.ID(), orphanedBy),
		})

		before := string(b.Status())
		if err := b.Cancel(now); err != nil {
			continue
		}
		if err := r.bookings.Update(ctx, b); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		fix := ReconcileFix{
			Kind:   "orphaned_reference",
			Before: fmt.Sprintf("booking %s status=%s, %s missing", b.ID(), before, orphanedBy),
			After:  fmt.Sprintf("booking %s status=%s", b.ID(), b.Status()),
		}
		report.Fixes = append(report.Fixes, fix)
		slog.Warn("reconciler cancelled orphaned booking",
			"booking_id", b.ID(), "missing", orphanedBy, "before", fix.Before, "after", fix.After)
	}
	return kept, nil
}

// repairPaymentMismatches resets bookings marked paid with no completed
// payment record to a conservative unpaid/pending state rather than
// assuming the settlement succeeded. Partial holds are the normal
// deposit stage of a fresh admission and have nothing to verify yet.
func (r *ConsistencyReconciler) repairPaymentMismatches(ctx context.Context, holds []*booking.Booking, report *ReconcileReport) ([]*booking.Booking, error) {
	now := r.clock.Now()
	kept := holds[:0]

	for _, b := range holds {
		if b.PaymentStatus() != booking.PaymentPaid {
			kept = append(kept, b)
			continue
		}
		paid, err := r.payments.HasCompletedPayment(ctx, b.ID())
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if paid {
			kept = append(kept, b)
			continue
		}

		report.Issues = append(report.Issues, ReconcileIssue{
			Kind:        "payment_mismatch",
			Description: fmt.Sprintf("booking %s marked %s with no completed payment record", b.ID(), b.PaymentStatus()),
		})

		before := fmt.Sprintf("status=%s payment=%s", b.Status(), b.PaymentStatus())
		b.ResetPayment(now)
		if err := r.bookings.Update(ctx, b); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		fix := ReconcileFix{
			Kind:   "payment_mismatch",
			Before: fmt.Sprintf("booking %s %s", b.ID(), before),
			After:  fmt.Sprintf("booking %s status=%s payment=%s", b.ID(), b.Status(), b.PaymentStatus()),
		}
		report.Fixes = append(report.Fixes, fix)
		slog.Warn("reconciler reset unverified payment",
			"booking_id", b.ID(), "before", fix.Before, "after", fix.After)
	}
	return kept, nil
}

// repairOverbooking cancels the most recently created excess bookings for
// each oversubscribed (service, date), keeping the earliest (first come,
// first kept) and notifying affected customers.
func (r *ConsistencyReconciler) repairOverbooking(ctx context.Context, holds []*booking.Booking, report *ReconcileReport) error {
	type slot struct {
		serviceID uuid.UUID
		date      time.Time
	}
	grouped := make(map[slot][]*booking.Booking)
	for _, b := range holds {
		key := slot{serviceID: b.ServiceID(), date: b.BookingDate()}
		grouped[key] = append(grouped[key], b)
	}

	now := r.clock.Now()
	for key, group := range grouped {
		svc, err := r.services.FindByID(ctx, key.serviceID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				continue // handled by the orphan pass
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		capacity := svc.Quantity()
		if !svc.Kind().IsStocked() {
			capacity = 1
		}

		booked := 0
		for _, b := range group {
			booked += b.Quantity()
		}
		if booked <= capacity {
			continue
		}

		report.Issues = append(report.Issues, ReconcileIssue{
			Kind: "overbooking",
			Description: fmt.Sprintf("service %s on %s: %d booked against capacity %d",
				key.serviceID, key.date.Format("2006-01-02"), booked, capacity),
		})

		// Newest first so the earliest bookings survive.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].CreatedAt().After(group[j].CreatedAt())
		})

		excess := booked - capacity
		for _, b := range group {
			if excess <= 0 {
				break
			}
			if err := b.Cancel(now); err != nil {
				continue
			}
			if err := r.bookings.Update(ctx, b); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			excess -= b.Quantity()

			fix := ReconcileFix{
				Kind:   "overbooking",
				Before: fmt.Sprintf("booking %s confirmed on oversubscribed %s", b.ID(), key.date.Format("2006-01-02")),
				After:  fmt.Sprintf("booking %s cancelled", b.ID()),
			}
			report.Fixes = append(report.Fixes, fix)
			slog.Warn("reconciler cancelled excess booking",
				"booking_id", b.ID(), "service_id", key.serviceID, "before", fix.Before, "after", fix.After)

			r.notifier.Notify(ctx, b.CustomerID(), "booking_cancelled_overbooked",
				"We had to cancel your booking due to an inventory error. Our team will follow up.",
				map[string]string{"booking_id": b.ID().String()},
			)
		}
	}
	return nil
}

// repairBatchDrift realigns each service's total quantity with the sum of
// its active batches, the authoritative figure.
func (r *ConsistencyReconciler) repairBatchDrift(ctx context.Context, report *ReconcileReport) error {
	services, err := r.services.ListActive(ctx)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	for _, svc := range services {
		if !svc.Kind().IsStocked() {
			continue
		}
		sum := svc.BatchQuantitySum()
		if svc.Quantity() == sum {
			continue
		}

		report.Issues = append(report.Issues, ReconcileIssue{
			Kind: "batch_drift",
			Description: fmt.Sprintf("service %s quantity %d does not match active batch sum %d",
				svc.ID(), svc.Quantity(), sum),
		})

		before := svc.Quantity()
		if err := svc.SetQuantity(sum); err != nil {
			continue
		}
		if err := r.services.Save(ctx, svc); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		fix := ReconcileFix{
			Kind:   "batch_drift",
			Before: fmt.Sprintf("service %s quantity=%d", svc.ID(), before),
			After:  fmt.Sprintf("service %s quantity=%d", svc.ID(), sum),
		}
		report.Fixes = append(report.Fixes, fix)
		slog.Warn("reconciler realigned service quantity",
			"service_id", svc.ID(), "before", fix.Before, "after", fix.After)
	}
	return nil
}
