package repository

import (
	"context"

	"rental-storefront/internal/infra"
	"rental-storefront/internal/pkg/pgconv"
	"rental-storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerDirectory is a read-only view over the externally-owned customers
// table; the core never writes here.
type CustomerDirectory struct {
	db *pgxpool.Pool
}

func NewCustomerDirectory(db *pgxpool.Pool) *CustomerDirectory {
	return &CustomerDirectory{db: db}
}

func (d *CustomerDirectory) Find(ctx context.Context, id uuid.UUID) (*usecase.CustomerSnapshot, error) {
	snapshot := usecase.CustomerSnapshot{ID: id}
	err := d.db.QueryRow(ctx, `
		SELECT c.role,
		       (SELECT COUNT(*) FROM bookings b
		        WHERE b.customer_id = c.id AND b.status IN ('confirmed', 'completed'))
		FROM customers c
		WHERE c.id = $1`, id).Scan(&snapshot.Role, &snapshot.ConfirmedBookings)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "customer not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find customer", err)
	}
	return &snapshot, nil
}

func (d *CustomerDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := d.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to check customer existence", err)
	}
	return exists, nil
}
