package response

import (
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/usecase"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID            uuid.UUID               `json:"id"`
	ServiceID     uuid.UUID               `json:"serviceId"`
	CustomerID    uuid.UUID               `json:"customerId"`
	Quantity      int                     `json:"quantity"`
	BookingDate   string                  `json:"bookingDate"`
	Status        string                  `json:"status"`
	PaymentStatus string                  `json:"paymentStatus"`
	PriceCents    int64                   `json:"priceCents"`
	Delivery      *DeliveryWindowResponse `json:"delivery,omitempty"`
	Notes         string                  `json:"notes,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

type DeliveryWindowResponse struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
}

type ReserveOutcomeResponse struct {
	Outcome  string                 `json:"outcome"`
	Booking  *BookingResponse       `json:"booking,omitempty"`
	Waitlist *WaitlistEntryResponse `json:"waitlist,omitempty"`
}

func FromBooking(b *booking.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:            b.ID(),
		ServiceID:     b.ServiceID(),
		CustomerID:    b.CustomerID(),
		Quantity:      b.Quantity(),
		BookingDate:   b.BookingDate().Format("2006-01-02"),
		Status:        string(b.Status()),
		PaymentStatus: string(b.PaymentStatus()),
		PriceCents:    b.PriceCents(),
		Notes:         b.Notes(),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
	if w := b.DeliveryWindow(); w != nil {
		resp.Delivery = &DeliveryWindowResponse{
			Start:           w.Start(),
			End:             w.End(),
			DurationMinutes: w.DurationMinutes(),
		}
	}
	return resp
}

func FromReserveOutcome(outcome usecase.ReserveOutcome) *ReserveOutcomeResponse {
	if outcome.Booking != nil {
		return &ReserveOutcomeResponse{
			Outcome: "confirmed",
			Booking: FromBooking(outcome.Booking),
		}
	}
	return &ReserveOutcomeResponse{
		Outcome:  "queued",
		Waitlist: FromWaitlistEntry(outcome.QueuedEntry),
	}
}
