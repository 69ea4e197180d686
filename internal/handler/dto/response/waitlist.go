package response

import (
	"time"

	"rental-storefront/internal/domain/waitlist"

	"github.com/google/uuid"
)

type WaitlistEntryResponse struct {
	ID                uuid.UUID   `json:"id"`
	ServiceID         uuid.UUID   `json:"serviceId"`
	CustomerID        uuid.UUID   `json:"customerId"`
	RequestedQuantity int         `json:"requestedQuantity"`
	BookingDate       string      `json:"bookingDate"`
	PriorityScore     float64     `json:"priorityScore"`
	Status            string      `json:"status"`
	Urgency           string      `json:"urgency"`
	OfferExpiresAt    *time.Time  `json:"offerExpiresAt,omitempty"`
	AlternativeIDs    []uuid.UUID `json:"alternativeIds,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
}

func FromWaitlistEntry(e *waitlist.Entry) *WaitlistEntryResponse {
	if e == nil {
		return nil
	}
	return &WaitlistEntryResponse{
		ID:                e.ID(),
		ServiceID:         e.ServiceID(),
		CustomerID:        e.CustomerID(),
		RequestedQuantity: e.RequestedQuantity(),
		BookingDate:       e.BookingDate().Format("2006-01-02"),
		PriorityScore:     e.PriorityScore(),
		Status:            string(e.Status()),
		Urgency:           string(e.Urgency()),
		OfferExpiresAt:    e.OfferExpiresAt(),
		AlternativeIDs:    e.AlternativeIDs(),
		CreatedAt:         e.CreatedAt(),
	}
}
