package repository

import (
	"context"

	"rental-storefront/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRecordStore reads the externally-owned payment records table; the
// reconciler uses it to verify that paid bookings have a completed payment
// behind them.
type PaymentRecordStore struct {
	db *pgxpool.Pool
}

func NewPaymentRecordStore(db *pgxpool.Pool) *PaymentRecordStore {
	return &PaymentRecordStore{db: db}
}

func (s *PaymentRecordStore) HasCompletedPayment(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM payment_records
			WHERE booking_id = $1 AND status = 'completed'
		)`, bookingID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to check payment record", err)
	}
	return exists, nil
}
