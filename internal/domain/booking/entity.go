package booking

import (
	"errors"
	"time"

	"rental-storefront/internal/domain/delivery"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity  = errors.New("booking quantity must be positive")
	ErrInvalidStatus    = errors.New("invalid booking status")
	ErrAlreadyTerminal  = errors.New("booking is already in a terminal status")
	ErrNotConfirmed     = errors.New("booking is not confirmed")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// Booking is a claim on a service for a date. Only confirmed bookings whose
// payment status holds capacity count toward a service's capacity limit.
type Booking struct {
	id             uuid.UUID
	serviceID      uuid.UUID
	customerID     uuid.UUID
	quantity       int
	bookingDate    time.Time
	status         Status
	paymentStatus  PaymentStatus
	priceCents     int64
	deliveryWindow *delivery.Window
	notes          string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewBooking(
	serviceID, customerID uuid.UUID,
	quantity int,
	bookingDate time.Time,
	paymentStatus PaymentStatus,
	priceCents int64,
	deliveryWindow *delivery.Window,
	notes string,
	now time.Time,
) (*Booking, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !paymentStatus.IsValid() {
		return nil, ErrInvalidStatus
	}

	return &Booking{
		id:             uuid.New(),
		serviceID:      serviceID,
		customerID:     customerID,
		quantity:       quantity,
		bookingDate:    NormalizeDate(bookingDate),
		status:         StatusConfirmed,
		paymentStatus:  paymentStatus,
		priceCents:     priceCents,
		deliveryWindow: deliveryWindow,
		notes:          notes,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructBooking(
	id, serviceID, customerID uuid.UUID,
	quantity int,
	bookingDate time.Time,
	status Status,
	paymentStatus PaymentStatus,
	priceCents int64,
	deliveryWindow *delivery.Window,
	notes string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		serviceID:      serviceID,
		customerID:     customerID,
		quantity:       quantity,
		bookingDate:    bookingDate,
		status:         status,
		paymentStatus:  paymentStatus,
		priceCents:     priceCents,
		deliveryWindow: deliveryWindow,
		notes:          notes,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID                       { return b.id }
func (b *Booking) ServiceID() uuid.UUID                { return b.serviceID }
func (b *Booking) CustomerID() uuid.UUID               { return b.customerID }
func (b *Booking) Quantity() int                       { return b.quantity }
func (b *Booking) BookingDate() time.Time              { return b.bookingDate }
func (b *Booking) Status() Status                      { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus        { return b.paymentStatus }
func (b *Booking) PriceCents() int64                   { return b.priceCents }
func (b *Booking) DeliveryWindow() *delivery.Window    { return b.deliveryWindow }
func (b *Booking) Notes() string                       { return b.notes }
func (b *Booking) CreatedAt() time.Time                { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time                { return b.updatedAt }

// HoldsCapacity reports whether this booking occupies capacity for its
// (service, date) pair.
func (b *Booking) HoldsCapacity() bool {
	return b.status == StatusConfirmed && b.paymentStatus.HoldsCapacity()
}

func (b *Booking) HasDelivery() bool {
	return b.deliveryWindow != nil
}

func (b *Booking) Cancel(now time.Time) error {
	if b.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	b.status = StatusCompleted
	b.updatedAt = now
	return nil
}

func (b *Booking) MarkFailed(now time.Time) error {
	if b.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	b.status = StatusFailed
	b.updatedAt = now
	return nil
}

// ResetPayment downgrades the payment status to unpaid and the booking to
// pending. Used by the reconciler when a paid booking has no completed
// payment record backing it.
func (b *Booking) ResetPayment(now time.Time) {
	b.paymentStatus = PaymentUnpaid
	b.status = StatusPending
	b.updatedAt = now
}

// NormalizeDate truncates a timestamp to its UTC calendar date. Bookings are
// date-granular; two timestamps on the same day address the same capacity.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
