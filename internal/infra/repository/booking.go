package repository

import (
	"context"
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/domain/delivery"
	"rental-storefront/internal/infra"
	"rental-storefront/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, service_id, customer_id, quantity, booking_date, status, payment_status,
	price_cents, delivery_start, delivery_duration_minutes, notes, created_at, updated_at`

// capacityHoldFilter selects bookings that occupy capacity: confirmed with a
// partial or paid payment.
const capacityHoldFilter = `status = 'confirmed' AND payment_status IN ('partial', 'paid')`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	var deliveryStart *time.Time
	var deliveryDuration *int
	if w := b.DeliveryWindow(); w != nil {
		start := w.Start()
		duration := w.DurationMinutes()
		deliveryStart = &start
		deliveryDuration = &duration
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings
			(id, service_id, customer_id, quantity, booking_date, status, payment_status,
			 price_cents, delivery_start, delivery_duration_minutes, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		b.ID(), b.ServiceID(), b.CustomerID(), b.Quantity(), b.BookingDate(),
		b.Status().String(), b.PaymentStatus().String(), b.PriceCents(),
		deliveryStart, deliveryDuration, b.Notes(), b.CreatedAt(), b.UpdatedAt())
	if err != nil {
		if isDuplicateKey(err) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "booking already exists", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT`+bookingColumns+` FROM bookings WHERE id = $1`, id)

	b, err := scanBooking(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find booking", err)
	}
	return b, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET status = $2, payment_status = $3, updated_at = $4
		WHERE id = $1`,
		b.ID(), b.Status().String(), b.PaymentStatus().String(), b.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found", pgx.ErrNoRows)
	}
	return nil
}

func (r *BookingRepository) FindCapacityHolds(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE service_id = $1 AND booking_date = $2 AND `+capacityHoldFilter+`
		ORDER BY created_at`, serviceID, date)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query capacity holds", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *BookingRepository) FindScheduledDeliveries(ctx context.Context, after time.Time) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE `+capacityHoldFilter+`
		  AND delivery_start IS NOT NULL
		  AND delivery_start + (delivery_duration_minutes || ' minutes')::interval > $1
		ORDER BY delivery_start`, after)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query scheduled deliveries", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *BookingRepository) CountRecentByService(ctx context.Context, serviceID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE service_id = $1 AND created_at >= $2 AND status <> 'failed'`, serviceID, since).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to count recent bookings", err)
	}
	return count, nil
}

func (r *BookingRepository) ListCapacityHolds(ctx context.Context) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings
		WHERE `+capacityHoldFilter+`
		ORDER BY service_id, booking_date, created_at`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list capacity holds", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read bookings", err)
	}
	return out, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id               uuid.UUID
		serviceID        uuid.UUID
		customerID       uuid.UUID
		quantity         int
		bookingDate      time.Time
		status           string
		paymentStatus    string
		priceCents       int64
		deliveryStart    *time.Time
		deliveryDuration *int
		notes            string
		createdAt        time.Time
		updatedAt        time.Time
	)
	if err := row.Scan(
		&id, &serviceID, &customerID, &quantity, &bookingDate, &status, &paymentStatus,
		&priceCents, &deliveryStart, &deliveryDuration, &notes, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var window *delivery.Window
	if deliveryStart != nil && deliveryDuration != nil {
		w, err := delivery.NewWindow(*deliveryStart, *deliveryDuration)
		if err != nil {
			return nil, err
		}
		window = &w
	}

	return booking.ReconstructBooking(
		id, serviceID, customerID, quantity, bookingDate,
		booking.Status(status), booking.PaymentStatus(paymentStatus),
		priceCents, window, notes, createdAt, updatedAt,
	), nil
}
