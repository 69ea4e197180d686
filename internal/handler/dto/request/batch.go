package request

import (
	"time"

	"rental-storefront/internal/usecase"

	"github.com/shopspring/decimal"
)

type AddBatchRequest struct {
	BatchID   string     `json:"batch_id" binding:"required"`
	Supplier  string     `json:"supplier" binding:"required"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
	UnitCost  string     `json:"unit_cost" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (r AddBatchRequest) ToInput() (usecase.AddBatchInput, error) {
	cost, err := decimal.NewFromString(r.UnitCost)
	if err != nil {
		return usecase.AddBatchInput{}, err
	}
	return usecase.AddBatchInput{
		BatchID:   r.BatchID,
		Supplier:  r.Supplier,
		Quantity:  r.Quantity,
		UnitCost:  cost,
		ExpiresAt: r.ExpiresAt,
	}, nil
}
