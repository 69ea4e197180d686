package repository

import (
	"context"
	"errors"
	"time"

	"rental-storefront/internal/domain/service"
	"rental-storefront/internal/infra"
	"rental-storefront/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ServiceRepository struct {
	db *pgxpool.Pool
}

func NewServiceRepository(db *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{db: db}
}

const serviceColumns = `
	id, name, category, kind, base_price_cents, duration_minutes,
	requires_delivery, quantity, active, created_at, updated_at`

func (r *ServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*service.Service, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+serviceColumns+`
		FROM services
		WHERE id = $1`, id)

	svc, err := r.scanService(ctx, row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "service not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find service", err)
	}
	return svc, nil
}

func (r *ServiceRepository) FindActiveByCategory(ctx context.Context, category string) ([]*service.Service, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+serviceColumns+`
		FROM services
		WHERE category = $1 AND active
		ORDER BY name`, category)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list services by category", err)
	}
	defer rows.Close()

	return r.collectServices(ctx, rows)
}

func (r *ServiceRepository) ListActive(ctx context.Context) ([]*service.Service, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+serviceColumns+`
		FROM services
		WHERE active
		ORDER BY name`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list services", err)
	}
	defer rows.Close()

	return r.collectServices(ctx, rows)
}

func (r *ServiceRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM services WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to check service existence", err)
	}
	return exists, nil
}

// Save persists quantity and rewrites the batch set in one transaction.
// Callers hold the per-service inventory lock, so the rewrite cannot race
// another ledger mutation.
func (r *ServiceRepository) Save(ctx context.Context, svc *service.Service) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE services
		SET quantity = $2, updated_at = now()
		WHERE id = $1`, svc.ID(), svc.Quantity())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update service quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "service not found", pgx.ErrNoRows)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM service_batches WHERE service_id = $1`, svc.ID()); err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to clear service batches", err)
	}

	for _, b := range svc.Batches() {
		_, err := tx.Exec(ctx, `
			INSERT INTO service_batches
				(service_id, batch_id, supplier, quantity, unit_cost, purchase_date, expires_at, active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			svc.ID(), b.ID(), b.Supplier(), b.Quantity(), b.UnitCost(),
			b.PurchaseDate(), b.ExpiresAt(), b.IsActive(), b.CreatedAt())
		if err != nil {
			if isDuplicateKey(err) {
				return infra.WrapRepoErr(infra.KindDuplicateKey, "duplicate batch id", err)
			}
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert batch", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to commit service save", err)
	}
	return nil
}

func (r *ServiceRepository) collectServices(ctx context.Context, rows pgx.Rows) ([]*service.Service, error) {
	var out []*service.Service
	for rows.Next() {
		svc, err := r.scanService(ctx, rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan service", err)
		}
		out = append(out, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read services", err)
	}
	return out, nil
}

func (r *ServiceRepository) scanService(ctx context.Context, row pgx.Row) (*service.Service, error) {
	var (
		id               uuid.UUID
		name             string
		category         string
		kind             string
		basePriceCents   int64
		durationMinutes  int
		requiresDelivery bool
		quantity         int
		active           bool
		createdAt        time.Time
		updatedAt        time.Time
	)
	if err := row.Scan(
		&id, &name, &category, &kind, &basePriceCents, &durationMinutes,
		&requiresDelivery, &quantity, &active, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	batches, err := r.loadBatches(ctx, id)
	if err != nil {
		return nil, err
	}
	tiers, err := r.loadPricingTiers(ctx, id)
	if err != nil {
		return nil, err
	}

	return service.ReconstructService(
		id, name, category, service.Kind(kind), basePriceCents, durationMinutes,
		requiresDelivery, quantity, batches, tiers, active, createdAt, updatedAt,
	), nil
}

func (r *ServiceRepository) loadBatches(ctx context.Context, serviceID uuid.UUID) ([]service.Batch, error) {
	rows, err := r.db.Query(ctx, `
		SELECT batch_id, supplier, quantity, unit_cost, purchase_date, expires_at, active, created_at
		FROM service_batches
		WHERE service_id = $1
		ORDER BY created_at`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []service.Batch
	for rows.Next() {
		var (
			batchID      string
			supplier     string
			quantity     int
			unitCost     decimal.Decimal
			purchaseDate time.Time
			expiresAt    *time.Time
			active       bool
			createdAt    time.Time
		)
		if err := rows.Scan(&batchID, &supplier, &quantity, &unitCost,
			&purchaseDate, &expiresAt, &active, &createdAt); err != nil {
			return nil, err
		}
		batches = append(batches, service.ReconstructBatch(
			batchID, supplier, quantity, unitCost,
			purchaseDate, expiresAt, active, createdAt,
		))
	}
	return batches, rows.Err()
}

func (r *ServiceRepository) loadPricingTiers(ctx context.Context, serviceID uuid.UUID) ([]service.PricingTier, error) {
	rows, err := r.db.Query(ctx, `
		SELECT days_before, multiplier
		FROM service_pricing_tiers
		WHERE service_id = $1
		ORDER BY days_before DESC`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []service.PricingTier
	for rows.Next() {
		var t service.PricingTier
		if err := rows.Scan(&t.DaysBefore, &t.Multiplier); err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
