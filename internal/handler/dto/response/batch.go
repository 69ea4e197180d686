package response

import (
	"time"

	"rental-storefront/internal/domain/service"
)

type BatchResponse struct {
	BatchID      string     `json:"batchId"`
	Supplier     string     `json:"supplier"`
	Quantity     int        `json:"quantity"`
	UnitCost     string     `json:"unitCost"`
	PurchaseDate time.Time  `json:"purchaseDate"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Active       bool       `json:"active"`
}

func FromBatch(b service.Batch) *BatchResponse {
	return &BatchResponse{
		BatchID:      b.ID(),
		Supplier:     b.Supplier(),
		Quantity:     b.Quantity(),
		UnitCost:     b.UnitCost().String(),
		PurchaseDate: b.PurchaseDate(),
		ExpiresAt:    b.ExpiresAt(),
		Active:       b.IsActive(),
	}
}

func FromBatches(batches []service.Batch) []*BatchResponse {
	out := make([]*BatchResponse, len(batches))
	for i, b := range batches {
		out[i] = FromBatch(b)
	}
	return out
}
