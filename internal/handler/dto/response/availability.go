package response

import (
	"rental-storefront/internal/usecase"

	"github.com/google/uuid"
)

type AvailabilityResponse struct {
	ServiceID         uuid.UUID `json:"serviceId"`
	Date              string    `json:"date"`
	Available         bool      `json:"available"`
	AvailableQuantity int       `json:"availableQuantity"`
	Reason            string    `json:"reason,omitempty"`
}

func FromAvailability(serviceID uuid.UUID, date string, result usecase.AvailabilityResult) *AvailabilityResponse {
	return &AvailabilityResponse{
		ServiceID:         serviceID,
		Date:              date,
		Available:         result.Available,
		AvailableQuantity: result.AvailableQuantity,
		Reason:            result.Reason,
	}
}
