package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/vacation-rental-booking/internal/model"
)

// BlockedPeriodRepo stores administrator-blocked date ranges. It
// implements the engine's BlockedPeriodStore interface. A blocked
// period participates in every availability check for as long as the
// row exists; there is no status column.
type BlockedPeriodRepo struct {
	db *sql.DB
}

// NewBlockedPeriodRepo returns a new BlockedPeriodRepo bound to the given database.
func NewBlockedPeriodRepo(db *sql.DB) *BlockedPeriodRepo { return &BlockedPeriodRepo{db: db} }

const blockedColumns = `id,
	   DATE_FORMAT(start_date, '%Y-%m-%d'),
	   DATE_FORMAT(end_date, '%Y-%m-%d'),
	   reason, created_at`

func scanBlockedPeriod(row interface{ Scan(...any) error }) (*model.BlockedPeriod, error) {
	var p model.BlockedPeriod
	var reason sql.NullString
	if err := row.Scan(&p.ID, &p.StartDate, &p.EndDate, &reason, &p.CreatedAt); err != nil {
		return nil, err
	}
	if reason.Valid {
		s := reason.String
		p.Reason = &s
	}
	return &p, nil
}

// Create inserts a new blocked period and populates the generated id
// and creation timestamp on the provided record.
func (r *BlockedPeriodRepo) Create(ctx context.Context, p *model.BlockedPeriod) error {
	const q = `INSERT INTO blocked_periods (start_date, end_date, reason) VALUES (?, ?, ?)`
	var reason any
	if p.Reason != nil {
		reason = *p.Reason
	}
	result, err := r.db.ExecContext(ctx, q, p.StartDate, p.EndDate, reason)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := scanBlockedPeriod(r.db.QueryRowContext(ctx,
		`SELECT `+blockedColumns+` FROM blocked_periods WHERE id = ?`, id))
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// List returns all blocked periods ordered by ascending start date.
func (r *BlockedPeriodRepo) List(ctx context.Context) ([]model.BlockedPeriod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+blockedColumns+` FROM blocked_periods ORDER BY start_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.BlockedPeriod, 0)
	for rows.Next() {
		p, err := scanBlockedPeriod(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a blocked period. It reports whether a row was
// actually deleted so callers can distinguish a missing id.
func (r *BlockedPeriodRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blocked_periods WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountOverlapping counts blocked periods conflicting with the
// candidate range under the same inclusive rule used for bookings.
func (r *BlockedPeriodRepo) CountOverlapping(ctx context.Context, startDate, endDate string) (int, error) {
	const q = `SELECT COUNT(*) FROM blocked_periods
			   WHERE start_date <= ? AND end_date >= ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, endDate, startDate).Scan(&n)
	return n, err
}
