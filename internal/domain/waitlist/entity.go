package waitlist

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("requested quantity must be positive")
	ErrInvalidUrgency  = errors.New("invalid urgency tier")
	ErrNotQueued       = errors.New("entry is not queued")
	ErrNotOffered      = errors.New("entry is not offered")
	ErrAlreadyTerminal = errors.New("entry is already in a terminal status")
)

// Entry is a pending request for capacity that was unavailable at request
// time. Lifecycle: queued -> offered -> fulfilled | expired | cancelled,
// with queued entries also able to expire or cancel directly.
type Entry struct {
	id                 uuid.UUID
	customerID         uuid.UUID
	serviceID          uuid.UUID
	requestedQuantity  int
	bookingDate        time.Time
	priorityScore      float64
	status             Status
	urgency            UrgencyTier
	notes              string
	expiresAt          time.Time
	offerExpiresAt     *time.Time
	alternativeIDs     []uuid.UUID
	createdAt          time.Time
	updatedAt          time.Time
}

func NewEntry(
	customerID, serviceID uuid.UUID,
	requestedQuantity int,
	bookingDate time.Time,
	priorityScore float64,
	urgency UrgencyTier,
	notes string,
	alternativeIDs []uuid.UUID,
	expiresAt time.Time,
	now time.Time,
) (*Entry, error) {
	if requestedQuantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !urgency.IsValid() {
		return nil, ErrInvalidUrgency
	}

	return &Entry{
		id:                uuid.New(),
		customerID:        customerID,
		serviceID:         serviceID,
		requestedQuantity: requestedQuantity,
		bookingDate:       bookingDate,
		priorityScore:     priorityScore,
		status:            StatusQueued,
		urgency:           urgency,
		notes:             notes,
		expiresAt:         expiresAt,
		alternativeIDs:    alternativeIDs,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

func ReconstructEntry(
	id, customerID, serviceID uuid.UUID,
	requestedQuantity int,
	bookingDate time.Time,
	priorityScore float64,
	status Status,
	urgency UrgencyTier,
	notes string,
	expiresAt time.Time,
	offerExpiresAt *time.Time,
	alternativeIDs []uuid.UUID,
	createdAt, updatedAt time.Time,
) *Entry {
	return &Entry{
		id:                id,
		customerID:        customerID,
		serviceID:         serviceID,
		requestedQuantity: requestedQuantity,
		bookingDate:       bookingDate,
		priorityScore:     priorityScore,
		status:            status,
		urgency:           urgency,
		notes:             notes,
		expiresAt:         expiresAt,
		offerExpiresAt:    offerExpiresAt,
		alternativeIDs:    alternativeIDs,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (e *Entry) ID() uuid.UUID                  { return e.id }
func (e *Entry) CustomerID() uuid.UUID          { return e.customerID }
func (e *Entry) ServiceID() uuid.UUID           { return e.serviceID }
func (e *Entry) RequestedQuantity() int         { return e.requestedQuantity }
func (e *Entry) BookingDate() time.Time         { return e.bookingDate }
func (e *Entry) PriorityScore() float64         { return e.priorityScore }
func (e *Entry) Status() Status                 { return e.status }
func (e *Entry) Urgency() UrgencyTier           { return e.urgency }
func (e *Entry) Notes() string                  { return e.notes }
func (e *Entry) ExpiresAt() time.Time           { return e.expiresAt }
func (e *Entry) OfferExpiresAt() *time.Time     { return e.offerExpiresAt }
func (e *Entry) AlternativeIDs() []uuid.UUID    { return e.alternativeIDs }
func (e *Entry) CreatedAt() time.Time           { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time           { return e.updatedAt }

func (e *Entry) IsOwnedBy(customerID uuid.UUID) bool {
	return e.customerID == customerID
}

// Offer grants a time-boxed right of first refusal on freed capacity.
func (e *Entry) Offer(now time.Time, offerTTL time.Duration) error {
	if e.status != StatusQueued {
		return ErrNotQueued
	}
	deadline := now.Add(offerTTL)
	e.status = StatusOffered
	e.offerExpiresAt = &deadline
	e.updatedAt = now
	return nil
}

func (e *Entry) OfferLapsed(now time.Time) bool {
	return e.status == StatusOffered && e.offerExpiresAt != nil && now.After(*e.offerExpiresAt)
}

func (e *Entry) Fulfill(now time.Time) error {
	if e.status != StatusOffered && e.status != StatusQueued {
		return ErrNotOffered
	}
	e.status = StatusFulfilled
	e.updatedAt = now
	return nil
}

func (e *Entry) Expire(now time.Time) error {
	if e.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	e.status = StatusExpired
	e.updatedAt = now
	return nil
}

func (e *Entry) Cancel(now time.Time) error {
	if e.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	e.status = StatusCancelled
	e.updatedAt = now
	return nil
}
