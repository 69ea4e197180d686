package repository

import (
	"context"
	"time"

	"rental-storefront/internal/domain/waitlist"
	"rental-storefront/internal/infra"
	"rental-storefront/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WaitlistRepository struct {
	db *pgxpool.Pool
}

func NewWaitlistRepository(db *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

const entryColumns = `
	id, customer_id, service_id, requested_quantity, booking_date, priority_score,
	status, urgency, notes, expires_at, offer_expires_at, alternative_ids,
	created_at, updated_at`

func (r *WaitlistRepository) Create(ctx context.Context, e *waitlist.Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO waitlist_entries
			(id, customer_id, service_id, requested_quantity, booking_date, priority_score,
			 status, urgency, notes, expires_at, offer_expires_at, alternative_ids,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID(), e.CustomerID(), e.ServiceID(), e.RequestedQuantity(), e.BookingDate(),
		e.PriorityScore(), e.Status().String(), string(e.Urgency()), e.Notes(),
		e.ExpiresAt(), e.OfferExpiresAt(), uuidStrings(e.AlternativeIDs()),
		e.CreatedAt(), e.UpdatedAt())
	if err != nil {
		if isDuplicateKey(err) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "waitlist entry already exists", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to create waitlist entry", err)
	}
	return nil
}

func (r *WaitlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	row := r.db.QueryRow(ctx, `SELECT`+entryColumns+` FROM waitlist_entries WHERE id = $1`, id)

	e, err := scanEntry(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "waitlist entry not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find waitlist entry", err)
	}
	return e, nil
}

func (r *WaitlistRepository) Update(ctx context.Context, e *waitlist.Entry) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE waitlist_entries
		SET status = $2, offer_expires_at = $3, updated_at = $4
		WHERE id = $1`,
		e.ID(), e.Status().String(), e.OfferExpiresAt(), e.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update waitlist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "waitlist entry not found", pgx.ErrNoRows)
	}
	return nil
}

// FindQueued returns the offer order: best score first, ties broken by age
// (first come, first offered).
func (r *WaitlistRepository) FindQueued(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*waitlist.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+entryColumns+`
		FROM waitlist_entries
		WHERE service_id = $1 AND booking_date = $2 AND status = 'queued'
		ORDER BY priority_score DESC, created_at ASC`, serviceID, date)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query queued entries", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *WaitlistRepository) FindLapsedOffers(ctx context.Context, now time.Time) ([]*waitlist.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+entryColumns+`
		FROM waitlist_entries
		WHERE status = 'offered' AND offer_expires_at < $1
		ORDER BY offer_expires_at`, now)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query lapsed offers", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *WaitlistRepository) FindStaleQueued(ctx context.Context, now time.Time) ([]*waitlist.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+entryColumns+`
		FROM waitlist_entries
		WHERE status = 'queued' AND expires_at < $1
		ORDER BY expires_at`, now)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query stale entries", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *WaitlistRepository) PurgeTerminalBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM waitlist_entries
		WHERE status IN ('fulfilled', 'cancelled', 'expired') AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to purge terminal entries", err)
	}
	return int(tag.RowsAffected()), nil
}

func collectEntries(rows pgx.Rows) ([]*waitlist.Entry, error) {
	var out []*waitlist.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan waitlist entry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read waitlist entries", err)
	}
	return out, nil
}

func scanEntry(row pgx.Row) (*waitlist.Entry, error) {
	var (
		id                uuid.UUID
		customerID        uuid.UUID
		serviceID         uuid.UUID
		requestedQuantity int
		bookingDate       time.Time
		priorityScore     float64
		status            string
		urgency           string
		notes             string
		expiresAt         time.Time
		offerExpiresAt    *time.Time
		alternativeIDs    []string
		createdAt         time.Time
		updatedAt         time.Time
	)
	if err := row.Scan(
		&id, &customerID, &serviceID, &requestedQuantity, &bookingDate, &priorityScore,
		&status, &urgency, &notes, &expiresAt, &offerExpiresAt, &alternativeIDs,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	alternatives := make([]uuid.UUID, 0, len(alternativeIDs))
	for _, s := range alternativeIDs {
		alt, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		alternatives = append(alternatives, alt)
	}

	return waitlist.ReconstructEntry(
		id, customerID, serviceID, requestedQuantity, bookingDate, priorityScore,
		waitlist.Status(status), waitlist.UrgencyTier(urgency), notes,
		expiresAt, offerExpiresAt, alternatives, createdAt, updatedAt,
	), nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
