package response

import (
	"rental-storefront/internal/usecase"

	"github.com/google/uuid"
)

type TruckStatusResponse struct {
	Busy             bool                    `json:"busy"`
	CurrentBookingID *uuid.UUID              `json:"currentBookingId,omitempty"`
	MinutesRemaining int                     `json:"minutesRemaining"`
	NextDelivery     *DeliveryWindowResponse `json:"nextDelivery,omitempty"`
}

func FromTruckStatus(status usecase.TruckStatus) *TruckStatusResponse {
	resp := &TruckStatusResponse{
		Busy:             status.Busy,
		CurrentBookingID: status.CurrentBookingID,
		MinutesRemaining: status.MinutesRemaining,
	}
	if w := status.NextDelivery; w != nil {
		resp.NextDelivery = &DeliveryWindowResponse{
			Start:           w.Start(),
			End:             w.End(),
			DurationMinutes: w.DurationMinutes(),
		}
	}
	return resp
}
