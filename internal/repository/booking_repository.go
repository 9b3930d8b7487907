package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/triply/triply-backend/internal/model"
)

// BookingRepo provides CRUD operations for bookings. Status-changing
// writes are ...Tx methods so handlers can move booking state and
// availability counters in one transaction. All timestamps are stored
// in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, user_id, destination_id, affiliate_code_id, party_size, status,
	deposit_cents, total_price_cents, payment_ref, window_starts_at, window_ends_at,
	start_date, end_date, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	var codeID sql.NullInt64
	var payRef sql.NullString
	var winStart, winEnd, startDate, endDate sql.NullTime
	err := row.Scan(&b.ID, &b.UserID, &b.DestinationID, &codeID, &b.PartySize, &b.Status,
		&b.DepositCents, &b.TotalPriceCents, &payRef, &winStart, &winEnd,
		&startDate, &endDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return b, err
	}
	if codeID.Valid {
		v := uint64(codeID.Int64)
		b.AffiliateCodeID = &v
	}
	if payRef.Valid {
		v := payRef.String
		b.PaymentRef = &v
	}
	if winStart.Valid {
		t := winStart.Time
		b.WindowStartsAt = &t
	}
	if winEnd.Valid {
		t := winEnd.Time
		b.WindowEndsAt = &t
	}
	if startDate.Valid {
		t := startDate.Time
		b.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		b.EndDate = &t
	}
	return b, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID. Status must be
// PENDING_DEPOSIT; deposit and price are captured from the destination
// by the caller so later price changes do not affect the booking.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
		(user_id, destination_id, affiliate_code_id, party_size, status, deposit_cents, total_price_cents)
		VALUES (?,?,?,?,?,?,?)`
	var codeID any
	if b.AffiliateCodeID != nil {
		codeID = *b.AffiliateCodeID
	}
	res, err := tx.ExecContext(ctx, q,
		b.UserID, b.DestinationID, codeID, b.PartySize, b.Status, b.DepositCents, b.TotalPriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = "SELECT " + bookingCols + " FROM bookings WHERE id = ?"
	got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	*b = got
	return nil
}

// GetForUpdateTx loads a booking with a row lock so the caller can
// validate and apply a status transition atomically. It returns
// ErrBookingNotFound when the row does not exist.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	const q = "SELECT " + bookingCols + " FROM bookings WHERE id = ? FOR UPDATE"
	b, err := scanBooking(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	return b, err
}

// GetByID loads a booking without locking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	const q = "SELECT " + bookingCols + " FROM bookings WHERE id = ?"
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	return b, err
}

// GetByPaymentRef looks a booking up by external payment reference.
// Used to make deposit webhooks idempotent.
func (r *BookingRepo) GetByPaymentRef(ctx context.Context, ref string) (model.Booking, error) {
	const q = "SELECT " + bookingCols + " FROM bookings WHERE payment_ref = ? LIMIT 1"
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, ref))
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	return b, err
}

// MarkDepositPaidTx records the deposit payment: status moves to
// DEPOSIT_PAID, the payment reference is attached and the 365-day
// date-selection window opens. The unique index on payment_ref turns
// a reference replayed against a different booking into ErrConflict.
func (r *BookingRepo) MarkDepositPaidTx(ctx context.Context, tx *sql.Tx, id uint64, ref string, winStart, winEnd time.Time) error {
	const q = `UPDATE bookings
		SET status=?, payment_ref=?, window_starts_at=?, window_ends_at=?
		WHERE id=?`
	_, err := tx.ExecContext(ctx, q, model.BookingDepositPaid, ref, winStart, winEnd, id)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrConflict
	}
	return err
}

// SetDatesTx stores the selected travel dates and moves the booking to
// DATES_SELECTED. Availability bookkeeping is the caller's job.
func (r *BookingRepo) SetDatesTx(ctx context.Context, tx *sql.Tx, id uint64, start, end time.Time) error {
	const q = `UPDATE bookings SET status=?, start_date=?, end_date=? WHERE id=?`
	_, err := tx.ExecContext(ctx, q, model.BookingDatesSelected, dateArg(start), dateArg(end), id)
	return err
}

// UpdateStatusTx writes a new status. Transition legality is validated
// by the caller against the model guard table before calling this.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, "UPDATE bookings SET status=? WHERE id=?", status, id)
	return err
}

// BookingDetail is a booking joined with its destination for display.
type BookingDetail struct {
	ID              uint64  `json:"id"`
	DestinationID   uint64  `json:"destination_id"`
	DestinationName string  `json:"destination_name"`
	DestinationSlug string  `json:"destination_slug"`
	UserID          uint64  `json:"user_id,omitempty"`
	UserEmail       string  `json:"user_email,omitempty"`
	PartySize       uint32  `json:"party_size"`
	Status          string  `json:"status"`
	DepositCents    uint32  `json:"deposit_cents"`
	TotalPriceCents uint32  `json:"total_price_cents"`
	PaymentRef      *string `json:"payment_ref,omitempty"`
	WindowEndsAt    *string `json:"window_ends_at,omitempty"`
	StartDate       *string `json:"start_date,omitempty"`
	EndDate         *string `json:"end_date,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func scanBookingDetail(rows *sql.Rows, withUser bool) (BookingDetail, error) {
	var d BookingDetail
	var payRef sql.NullString
	var winEnd, startDate, endDate sql.NullTime
	var createdAt time.Time
	dest := []any{&d.ID, &d.DestinationID, &d.DestinationName, &d.DestinationSlug,
		&d.PartySize, &d.Status, &d.DepositCents, &d.TotalPriceCents,
		&payRef, &winEnd, &startDate, &endDate, &createdAt}
	if withUser {
		dest = append(dest, &d.UserID, &d.UserEmail)
	}
	if err := rows.Scan(dest...); err != nil {
		return d, err
	}
	if payRef.Valid {
		v := payRef.String
		d.PaymentRef = &v
	}
	if winEnd.Valid {
		iso := winEnd.Time.UTC().Format(time.RFC3339)
		d.WindowEndsAt = &iso
	}
	if startDate.Valid {
		v := startDate.Time.UTC().Format("2006-01-02")
		d.StartDate = &v
	}
	if endDate.Valid {
		v := endDate.Time.UTC().Format("2006-01-02")
		d.EndDate = &v
	}
	d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return d, nil
}

// ListByUser returns all bookings of a customer with destination
// details, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.destination_id, d.name, d.slug,
			b.party_size, b.status, b.deposit_cents, b.total_price_cents,
			b.payment_ref, b.window_ends_at, b.start_date, b.end_date, b.created_at
		FROM bookings b
		JOIN destinations d ON d.id = b.destination_id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AdminBookingQuery filters the admin booking list.
type AdminBookingQuery struct {
	Status        string
	DestinationID uint64
	Page          int
	PageSize      int
}

// ListAdmin returns bookings across all users matching the filter,
// with user emails joined in, plus the total match count.
func (r *BookingRepo) ListAdmin(ctx context.Context, q AdminBookingQuery) ([]BookingDetail, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, strings.ToUpper(q.Status))
	}
	if q.DestinationID != 0 {
		where = append(where, "b.destination_id = ?")
		args = append(args, q.DestinationID)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings b WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	dataSQL := `SELECT b.id, b.destination_id, d.name, d.slug,
			b.party_size, b.status, b.deposit_cents, b.total_price_cents,
			b.payment_ref, b.window_ends_at, b.start_date, b.end_date, b.created_at,
			b.user_id, u.email
		FROM bookings b
		JOIN destinations d ON d.id = b.destination_id
		JOIN users u ON u.id = b.user_id
		WHERE ` + cond + `
		ORDER BY b.created_at DESC
		LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, dataSQL, append(args, q.PageSize, (q.Page-1)*q.PageSize)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0, q.PageSize)
	for rows.Next() {
		d, err := scanBookingDetail(rows, true)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}
