package request

import (
	"github.com/google/uuid"
)

type AcceptOfferRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}
