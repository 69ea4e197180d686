package request

import (
	"time"

	"rental-storefront/internal/domain/waitlist"

	"github.com/google/uuid"
)

const bookingDateLayout = "2006-01-02"

type CreateBookingRequest struct {
	CustomerID              uuid.UUID  `json:"customer_id" binding:"required"`
	ServiceID               uuid.UUID  `json:"service_id" binding:"required"`
	Quantity                int        `json:"quantity" binding:"required,min=1"`
	Date                    string     `json:"date" binding:"required"`
	Urgency                 string     `json:"urgency,omitempty"`
	Notes                   string     `json:"notes,omitempty"`
	DeliveryStart           *time.Time `json:"delivery_start,omitempty"`
	DeliveryDurationMinutes int        `json:"delivery_duration_minutes,omitempty"`
}

func (r CreateBookingRequest) ParseDate() (time.Time, error) {
	return time.Parse(bookingDateLayout, r.Date)
}

func (r CreateBookingRequest) ParseUrgency() (waitlist.UrgencyTier, bool) {
	if r.Urgency == "" {
		return waitlist.UrgencyMedium, true
	}
	tier := waitlist.UrgencyTier(r.Urgency)
	return tier, tier.IsValid()
}
