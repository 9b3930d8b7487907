package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/triply/triply-backend/internal/model"
)

// AvailabilityRepo manages the per-date slot counters that gate date
// selection. All writes that consume or release slots happen inside
// the caller's transaction so that booking state and counters move
// together.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo returns a new AvailabilityRepo bound to the given database.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *AvailabilityRepo) DB() *sql.DB { return r.db }

// dateArg formats a time as the DATE column expects.
func dateArg(t time.Time) string { return t.UTC().Format("2006-01-02") }

// UpsertEntry is one date of an admin bulk update.
type UpsertEntry struct {
	Date           time.Time `json:"date"`
	AvailableSlots uint32    `json:"available_slots"`
	IsBlocked      bool      `json:"is_blocked"`
}

// bulkUpsertQuery builds the multi-row capacity upsert. When
// touchBlocked is false existing rows keep their blocked flag, so
// reseeding capacity over a range cannot silently reopen dates an
// admin blocked earlier.
func bulkUpsertQuery(n int, touchBlocked bool) string {
	query := `INSERT INTO availability (destination_id, date, available_slots, is_blocked) VALUES `
	for i := 0; i < n; i++ {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
	}
	query += ` ON DUPLICATE KEY UPDATE
		available_slots = GREATEST(VALUES(available_slots), booked_slots)`
	if touchBlocked {
		query += `,
		is_blocked = VALUES(is_blocked)`
	}
	return query
}

// BulkUpsert writes capacity rows for a destination in a single
// statement. Existing rows keep their booked_slots; capacity is never
// lowered below what is already booked so the invariant
// booked_slots <= available_slots holds. touchBlocked says whether the
// caller supplied blocked flags; when it is false existing rows keep
// theirs.
func (r *AvailabilityRepo) BulkUpsert(ctx context.Context, destinationID uint64, entries []UpsertEntry, touchBlocked bool) error {
	if len(entries) == 0 {
		return nil
	}
	args := make([]any, 0, len(entries)*4)
	for _, e := range entries {
		args = append(args, destinationID, dateArg(e.Date), e.AvailableSlots, e.IsBlocked)
	}
	_, err := r.db.ExecContext(ctx, bulkUpsertQuery(len(entries), touchBlocked), args...)
	return err
}

// SetBlocked flips the blocked flag on the given dates. Missing rows
// are ignored; blocking a date does not cancel bookings already
// holding its slots.
func (r *AvailabilityRepo) SetBlocked(ctx context.Context, destinationID uint64, dates []time.Time, blocked bool) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	query := `UPDATE availability SET is_blocked=? WHERE destination_id=? AND date IN (`
	args := []any{blocked, destinationID}
	for i, d := range dates {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, dateArg(d))
	}
	query += ")"
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Calendar returns availability rows for a destination between from
// and to inclusive, ordered by date. Dates with no row simply have no
// capacity and are omitted.
func (r *AvailabilityRepo) Calendar(ctx context.Context, destinationID uint64, from, to time.Time) ([]model.Availability, error) {
	const q = `SELECT id, destination_id, date, available_slots, booked_slots, is_blocked, updated_at
		FROM availability
		WHERE destination_id = ? AND date BETWEEN ? AND ?
		ORDER BY date`
	rows, err := r.db.QueryContext(ctx, q, destinationID, dateArg(from), dateArg(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Availability, 0)
	for rows.Next() {
		var a model.Availability
		if err := rows.Scan(&a.ID, &a.DestinationID, &a.Date, &a.AvailableSlots,
			&a.BookedSlots, &a.IsBlocked, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ConsumeSlotsTx takes one slot on every listed date within the given
// transaction. Each date is claimed with a conditional UPDATE; when a
// date is blocked, missing or fully booked the update matches no row
// and the whole call fails with ErrSlotsUnavailable. The caller rolls
// the transaction back, so partially claimed dates are released
// automatically and the counter can never be oversubscribed under
// concurrent selections.
func (r *AvailabilityRepo) ConsumeSlotsTx(ctx context.Context, tx *sql.Tx, destinationID uint64, dates []time.Time) error {
	const q = `UPDATE availability
		SET booked_slots = booked_slots + 1
		WHERE destination_id = ? AND date = ? AND is_blocked = 0 AND booked_slots < available_slots`
	for _, d := range dates {
		res, err := tx.ExecContext(ctx, q, destinationID, dateArg(d))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrSlotsUnavailable
		}
	}
	return nil
}

// ReleaseSlotsTx gives back one slot on every listed date. It is the
// inverse of ConsumeSlotsTx and is used when dates are re-selected,
// the booking is rejected, or the customer cancels. booked_slots is
// clamped at zero.
func (r *AvailabilityRepo) ReleaseSlotsTx(ctx context.Context, tx *sql.Tx, destinationID uint64, dates []time.Time) error {
	const q = `UPDATE availability
		SET booked_slots = booked_slots - 1
		WHERE destination_id = ? AND date = ? AND booked_slots > 0`
	for _, d := range dates {
		if _, err := tx.ExecContext(ctx, q, destinationID, dateArg(d)); err != nil {
			return err
		}
	}
	return nil
}
