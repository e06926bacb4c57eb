package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/vacation-rental-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings. It implements the
// engine's BookingStore interface. Date columns are MySQL DATE values;
// every query formats them back to YYYY-MM-DD strings so the calendar
// day crosses the API boundary exactly as it was stored. Timestamp
// fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id,
	   DATE_FORMAT(start_date, '%Y-%m-%d'),
	   DATE_FORMAT(end_date, '%Y-%m-%d'),
	   guest_name, guest_email, guest_phone,
	   party_size, total_price_cents, status,
	   created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	var phone sql.NullString
	err := row.Scan(
		&b.ID, &b.StartDate, &b.EndDate,
		&b.GuestName, &b.GuestEmail, &phone,
		&b.PartySize, &b.TotalPriceCents, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		p := phone.String
		b.GuestPhone = &p
	}
	return &b, nil
}

// Create inserts a new booking and populates the generated id plus the
// database-assigned timestamps on the provided record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
			   (start_date, end_date, guest_name, guest_email, guest_phone, party_size, total_price_cents, status)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var phone any
	if b.GuestPhone != nil {
		phone = *b.GuestPhone
	}
	result, err := r.db.ExecContext(ctx, q,
		b.StartDate, b.EndDate, b.GuestName, b.GuestEmail, phone,
		b.PartySize, b.TotalPriceCents, b.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	// Query back the full row to populate timestamps and defaults.
	stored, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		return err
	}
	*b = *stored
	return nil
}

// GetByID returns a single booking. sql.ErrNoRows is returned when no
// booking with the id exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
}

// List returns bookings ordered by ascending start date. With both
// bounds set it restricts the result to bookings whose range intersects
// [startDate, endDate] under the inclusive-boundary rule; with both
// empty it returns everything. The result has no hidden cursor state:
// the same inputs against unchanged data yield the same rows.
func (r *BookingRepo) List(ctx context.Context, startDate, endDate string) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings`
	args := []any{}
	if startDate != "" && endDate != "" {
		q += ` WHERE start_date <= ? AND end_date >= ?`
		args = append(args, endDate, startDate)
	}
	q += ` ORDER BY start_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountOverlapping counts non-cancelled bookings whose date range
// conflicts with the candidate under the inclusive rule
// (start <= candidate_end AND end >= candidate_start). Cancelled
// bookings never block a new one.
func (r *BookingRepo) CountOverlapping(ctx context.Context, startDate, endDate string) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings
			   WHERE status <> 'cancelled'
				 AND start_date <= ? AND end_date >= ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, endDate, startDate).Scan(&n)
	return n, err
}

// UpdateStatus moves a booking from one status to another. The WHERE
// clause makes the update conditional on the expected current status,
// so a concurrent transition shows up as zero affected rows instead of
// a lost update.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.Status) (int64, error) {
	const q = `UPDATE bookings SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
