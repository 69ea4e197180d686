package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/domain/service"
	"rental-storefront/internal/domain/waitlist"
	"rental-storefront/internal/infra"
	"rental-storefront/internal/infra/lock"
	"rental-storefront/internal/pkg/clock"
	"rental-storefront/internal/pkg/config"
	"rental-storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

const demandWindow = 30 * 24 * time.Hour

type EnqueueInput struct {
	CustomerID uuid.UUID
	ServiceID  uuid.UUID
	Quantity   int
	Date       time.Time
	Urgency    waitlist.UrgencyTier
	Notes      string
}

type CleanupReport struct {
	LapsedOffers  int
	StaleEntries  int
	PurgedEntries int
}

// ReservationQueue is the priority waitlist: admission failures land here,
// and freed capacity is offered back to the best-qualified waiting customer
// as a time-boxed right of first refusal.
type ReservationQueue struct {
	entries      WaitlistRepository
	services     ServiceRepository
	bookings     BookingRepository
	customers    CustomerDirectory
	availability *AvailabilityChecker
	delivery     *DeliveryScheduler
	notifier     Notifier
	locks        LockManager
	clock        clock.Clock
	policy       waitlist.ScoringPolicy
	cfg          config.WaitlistConfig
}

func NewReservationQueue(
	entries WaitlistRepository,
	services ServiceRepository,
	bookings BookingRepository,
	customers CustomerDirectory,
	availability *AvailabilityChecker,
	delivery *DeliveryScheduler,
	notifier Notifier,
	locks LockManager,
	clk clock.Clock,
	cfg config.WaitlistConfig,
) *ReservationQueue {
	return &ReservationQueue{
		entries:      entries,
		services:     services,
		bookings:     bookings,
		customers:    customers,
		availability: availability,
		delivery:     delivery,
		notifier:     notifier,
		locks:        locks,
		clock:        clk,
		policy: waitlist.ScoringPolicy{
			BaseScore:          cfg.BaseScore,
			LoyaltyPerBooking:  cfg.LoyaltyPerBooking,
			LoyaltyCap:         cfg.LoyaltyCap,
			QuantityBonus:      cfg.QuantityBonus,
			QuantityBonusCap:   cfg.QuantityBonusCap,
			DemandBoost:        cfg.DemandBoost,
			HighDemandBookings: cfg.HighDemandBookings,
			LowDemandBookings:  cfg.LowDemandBookings,
			ImminentDays:       cfg.ImminentDays,
			ImminentBonus:      cfg.ImminentBonus,
			NearDays:           cfg.NearDays,
			NearBonus:          cfg.NearBonus,
			UpcomingDays:       cfg.UpcomingDays,
			UpcomingBonus:      cfg.UpcomingBonus,
			HorizonDays:        cfg.HorizonDays,
			FarFuturePenalty:   cfg.FarFuturePenalty,
		},
		cfg: cfg,
	}
}

// Enqueue scores the request and places it in the queue, attaching
// alternative suggestions so the customer gets options instead of a bare
// rejection.
func (q *ReservationQueue) Enqueue(ctx context.Context, input EnqueueInput) (*waitlist.Entry, error) {
	now := q.clock.Now()
	date := booking.NormalizeDate(input.Date)

	svc, err := q.loadService(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = waitlist.UrgencyMedium
	}

	score := q.scoreRequest(ctx, svc, input.CustomerID, input.Quantity, date, urgency, now)
	suggestions := q.alternativeSuggestions(ctx, svc, date, input.Quantity)

	entry, err := waitlist.NewEntry(
		input.CustomerID, input.ServiceID, input.Quantity, date,
		score, urgency, input.Notes, suggestions,
		now.Add(q.cfg.EntryTTL), now,
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	if err := q.entries.Create(ctx, entry); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	q.notifier.Notify(ctx, input.CustomerID, "waitlist_queued",
		fmt.Sprintf("You are on the waitlist for %s on %s.", svc.Name(), date.Format("2006-01-02")),
		map[string]string{"entry_id": entry.ID().String(), "service_id": svc.ID().String()},
	)
	return entry, nil
}

// CanFulfill re-applies the admission checks for the entry's service, date
// and quantity at evaluation time.
func (q *ReservationQueue) CanFulfill(ctx context.Context, entry *waitlist.Entry) (bool, string, error) {
	svc, err := q.loadService(ctx, entry.ServiceID())
	if err != nil {
		return false, "", err
	}

	result, err := q.availability.CheckService(ctx, svc, entry.BookingDate(), entry.RequestedQuantity())
	if err != nil {
		return false, "", err
	}
	if !result.Available {
		return false, result.Reason, nil
	}

	if q.delivery.RequiresDelivery(svc) {
		window := defaultDeliveryWindow(svc, entry.BookingDate())
		check, err := q.delivery.CheckAvailability(ctx, window.start, window.durationMinutes, 0)
		if err != nil {
			return false, "", err
		}
		if !check.Available {
			return false, "delivery truck is not available", nil
		}
	}
	return true, "", nil
}

// Fulfill converts an entry into a confirmed booking. Runs inside the
// (service, date) admission lock; capacity is re-checked there because time
// has passed since the offer was made.
func (q *ReservationQueue) Fulfill(ctx context.Context, entry *waitlist.Entry) (*booking.Booking, error) {
	var booked *booking.Booking
	key := lock.AdmissionKey(entry.ServiceID(), entry.BookingDate())

	err := q.locks.WithLock(ctx, key, func(ctx context.Context) error {
		svc, err := q.loadService(ctx, entry.ServiceID())
		if err != nil {
			return err
		}

		result, err := q.availability.CheckService(ctx, svc, entry.BookingDate(), entry.RequestedQuantity())
		if err != nil {
			return err
		}
		if !result.Available {
			return errs.Mark(errs.New(result.Reason), errs.ErrAvailabilityConflict)
		}

		now := q.clock.Now()
		price := bookingPrice(svc, entry.BookingDate(), now) * int64(entry.RequestedQuantity())

		// Admission and payment are orthogonal: fulfillment holds the
		// capacity with a deposit-level payment status, it does not mean
		// payment was received.
		b, err := booking.NewBooking(
			entry.ServiceID(), entry.CustomerID(), entry.RequestedQuantity(),
			entry.BookingDate(), booking.PaymentPartial, price, nil, entry.Notes(), now,
		)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := q.bookings.Create(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := entry.Fulfill(now); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := q.entries.Update(ctx, entry); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		booked = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	q.notifier.Notify(ctx, entry.CustomerID(), "waitlist_fulfilled",
		"Your waitlisted booking is confirmed.",
		map[string]string{"booking_id": booked.ID().String()},
	)
	return booked, nil
}

// ProcessOnAvailability offers freed capacity to queued entries in priority
// order (score descending, creation time ascending). Entries get a
// confirmation window rather than an auto-created booking.
func (q *ReservationQueue) ProcessOnAvailability(ctx context.Context, serviceID uuid.UUID, date time.Time, freedQuantity int) error {
	if freedQuantity <= 0 {
		return nil
	}

	queued, err := q.entries.FindQueued(ctx, serviceID, booking.NormalizeDate(date))
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	now := q.clock.Now()
	remaining := freedQuantity
	for _, entry := range queued {
		if remaining <= 0 {
			break
		}
		if entry.RequestedQuantity() > remaining {
			continue
		}

		if err := entry.Offer(now, q.cfg.OfferTTL); err != nil {
			continue
		}
		if err := q.entries.Update(ctx, entry); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		remaining -= entry.RequestedQuantity()

		q.notifier.Notify(ctx, entry.CustomerID(), "waitlist_offer",
			fmt.Sprintf("Capacity opened up for your waitlisted date. You have until %s to accept.",
				entry.OfferExpiresAt().Format(time.RFC3339)),
			map[string]string{"entry_id": entry.ID().String()},
		)
	}
	return nil
}

// AcceptOffer validates the offer and fulfills it. Availability is
// re-checked inside Fulfill; on any failure the entry lands in a terminal
// state with a typed error, never a silent partial success.
func (q *ReservationQueue) AcceptOffer(ctx context.Context, entryID, customerID uuid.UUID) (*booking.Booking, error) {
	entry, err := q.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if !entry.IsOwnedBy(customerID) {
		return nil, errs.ErrNotOfferHolder
	}
	if entry.Status() != waitlist.StatusOffered {
		return nil, errs.ErrOfferNotFound
	}

	now := q.clock.Now()
	if entry.OfferLapsed(now) {
		if expireErr := entry.Expire(now); expireErr == nil {
			if updErr := q.entries.Update(ctx, entry); updErr != nil {
				slog.Warn("failed to persist lapsed offer", "entry_id", entryID, "error", updErr)
			}
			// Once terminal the entry is invisible to the lapsed-offer
			// sweep, so the freed slot must be re-offered here.
			if offerErr := q.ProcessOnAvailability(ctx, entry.ServiceID(), entry.BookingDate(), entry.RequestedQuantity()); offerErr != nil {
				slog.Warn("failed to re-offer lapsed slot", "entry_id", entryID, "error", offerErr)
			}
		}
		return nil, errs.ErrOfferExpired
	}

	booked, err := q.Fulfill(ctx, entry)
	if err != nil {
		if cr := entry.Expire(now); cr == nil {
			if updErr := q.entries.Update(ctx, entry); updErr != nil {
				slog.Warn("failed to persist failed offer", "entry_id", entryID, "error", updErr)
			}
		}
		return nil, err
	}
	return booked, nil
}

// CleanupExpired sweeps lapsed offers (immediately re-offering the freed
// slot to the next-highest-priority queued entry), expires stale queued
// entries and purges old terminal ones.
func (q *ReservationQueue) CleanupExpired(ctx context.Context) (CleanupReport, error) {
	now := q.clock.Now()
	var report CleanupReport

	lapsed, err := q.entries.FindLapsedOffers(ctx, now)
	if err != nil {
		return report, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	for _, entry := range lapsed {
		if err := entry.Expire(now); err != nil {
			continue
		}
		if err := q.entries.Update(ctx, entry); err != nil {
			return report, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		report.LapsedOffers++

		q.notifier.Notify(ctx, entry.CustomerID(), "waitlist_offer_expired",
			"Your waitlist offer expired and the slot was released.",
			map[string]string{"entry_id": entry.ID().String()},
		)

		// The lapsed offer's capacity goes straight back to the pool.
		if err := q.ProcessOnAvailability(ctx, entry.ServiceID(), entry.BookingDate(), entry.RequestedQuantity()); err != nil {
			slog.Warn("failed to re-offer lapsed slot", "entry_id", entry.ID(), "error", err)
		}
	}

	stale, err := q.entries.FindStaleQueued(ctx, now)
	if err != nil {
		return report, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	for _, entry := range stale {
		if err := entry.Expire(now); err != nil {
			continue
		}
		if err := q.entries.Update(ctx, entry); err != nil {
			return report, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		report.StaleEntries++
	}

	purged, err := q.entries.PurgeTerminalBefore(ctx, now.Add(-q.cfg.Retention))
	if err != nil {
		return report, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	report.PurgedEntries = purged

	return report, nil
}

func (q *ReservationQueue) scoreRequest(
	ctx context.Context,
	svc *service.Service,
	customerID uuid.UUID,
	quantity int,
	date time.Time,
	urgency waitlist.UrgencyTier,
	now time.Time,
) float64 {
	in := waitlist.ScoreInput{
		Urgency:           urgency,
		DaysUntilDate:     int(math.Ceil(date.Sub(booking.NormalizeDate(now)).Hours() / 24)),
		RequestedQuantity: quantity,
	}

	// Scoring inputs are best-effort: a directory outage should downgrade
	// the score, not block queueing.
	if snapshot, err := q.customers.Find(ctx, customerID); err == nil && snapshot != nil {
		in.ConfirmedBookings = snapshot.ConfirmedBookings
	} else if err != nil {
		slog.Warn("customer lookup failed during scoring", "customer_id", customerID, "error", err)
	}

	if recent, err := q.bookings.CountRecentByService(ctx, svc.ID(), now.Add(-demandWindow)); err == nil {
		in.RecentServiceBookings = recent
	} else {
		slog.Warn("service demand lookup failed during scoring", "service_id", svc.ID(), "error", err)
	}

	return q.policy.Score(in)
}

// alternativeSuggestions ranks same-category services by price and duration
// similarity, preferring ones actually available on the requested date.
func (q *ReservationQueue) alternativeSuggestions(ctx context.Context, svc *service.Service, date time.Time, quantity int) []uuid.UUID {
	candidates, err := q.services.FindActiveByCategory(ctx, svc.Category())
	if err != nil {
		slog.Warn("failed to load alternative candidates", "category", svc.Category(), "error", err)
		return nil
	}

	type ranked struct {
		id        uuid.UUID
		available bool
		distance  float64
	}

	var scored []ranked
	for _, cand := range candidates {
		if cand.ID() == svc.ID() {
			continue
		}
		priceDiff := math.Abs(float64(cand.BasePriceCents()-svc.BasePriceCents())) / math.Max(float64(svc.BasePriceCents()), 1)
		durationDiff := math.Abs(float64(cand.DurationMinutes()-svc.DurationMinutes())) / math.Max(float64(svc.DurationMinutes()), 1)

		available := false
		if result, err := q.availability.CheckService(ctx, cand, date, quantity); err == nil {
			available = result.Available
		}

		scored = append(scored, ranked{
			id:        cand.ID(),
			available: available,
			distance:  priceDiff + durationDiff,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].available != scored[j].available {
			return scored[i].available
		}
		return scored[i].distance < scored[j].distance
	})

	max := q.cfg.MaxSuggestions
	if max <= 0 || max > len(scored) {
		max = len(scored)
	}
	out := make([]uuid.UUID, 0, max)
	for _, r := range scored[:max] {
		out = append(out, r.id)
	}
	return out
}

func (q *ReservationQueue) loadService(ctx context.Context, serviceID uuid.UUID) (*service.Service, error) {
	svc, err := q.services.FindByID(ctx, serviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrServiceNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return svc, nil
}

func (q *ReservationQueue) loadEntry(ctx context.Context, entryID uuid.UUID) (*waitlist.Entry, error) {
	entry, err := q.entries.FindByID(ctx, entryID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrEntryNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return entry, nil
}

type windowSpec struct {
	start           time.Time
	durationMinutes int
}

// defaultDeliveryWindow is the slot proposed when a request needs the truck
// but did not name a time: morning of the booking date, sized by the
// service's duration.
func defaultDeliveryWindow(svc *service.Service, date time.Time) windowSpec {
	d := booking.NormalizeDate(date)
	duration := svc.DurationMinutes()
	if duration <= 0 {
		duration = 120
	}
	return windowSpec{
		start:           time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, time.UTC),
		durationMinutes: duration,
	}
}

// bookingPrice applies the pricing tiers for the lead time at booking.
func bookingPrice(svc *service.Service, date, now time.Time) int64 {
	daysBefore := int(date.Sub(booking.NormalizeDate(now)).Hours() / 24)
	if daysBefore < 0 {
		daysBefore = 0
	}
	return service.CalculatePrice(svc.BasePriceCents(), svc.PricingTiers(), daysBefore)
}
