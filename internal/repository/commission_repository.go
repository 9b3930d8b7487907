package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/triply/triply-backend/internal/model"
)

// CommissionRepo manages affiliate commissions. Commissions are
// created inside the booking-confirmation transaction and settled by
// admins afterwards.
type CommissionRepo struct {
	db *sql.DB
}

// NewCommissionRepo returns a new CommissionRepo bound to the given database.
func NewCommissionRepo(db *sql.DB) *CommissionRepo { return &CommissionRepo{db: db} }

// CreateTx inserts an EARNED commission for a confirmed booking. The
// unique index on booking_id guarantees at most one commission per
// booking even if a confirmation is retried; duplicates come back as
// ErrConflict.
func (r *CommissionRepo) CreateTx(ctx context.Context, tx *sql.Tx, c *model.Commission) error {
	const q = `INSERT INTO commissions (affiliate_id, booking_id, code_id, amount_cents, status)
		VALUES (?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q, c.AffiliateID, c.BookingID, c.CodeID, c.AmountCents, model.CommissionEarned)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	c.Status = model.CommissionEarned
	return nil
}

// CancelForBookingTx cancels the commission for a booking unless it
// has already been paid out. Used when a referred booking is
// cancelled.
func (r *CommissionRepo) CancelForBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	const q = `UPDATE commissions SET status=? WHERE booking_id=? AND status=?`
	_, err := tx.ExecContext(ctx, q, model.CommissionCancelled, bookingID, model.CommissionEarned)
	return err
}

// MarkPaid settles an EARNED commission. It returns sql.ErrNoRows when
// the commission does not exist or is not in the EARNED state.
func (r *CommissionRepo) MarkPaid(ctx context.Context, id uint64) error {
	const q = `UPDATE commissions SET status=?, paid_at=NOW() WHERE id=? AND status=?`
	res, err := r.db.ExecContext(ctx, q, model.CommissionPaid, id, model.CommissionEarned)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CommissionDetail is a commission joined with booking and destination
// context for display.
type CommissionDetail struct {
	ID          uint64  `json:"id"`
	AffiliateID uint64  `json:"affiliate_id,omitempty"`
	BookingID   uint64  `json:"booking_id"`
	Code        string  `json:"code"`
	Destination string  `json:"destination"`
	AmountCents uint32  `json:"amount_cents"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	PaidAt      *string `json:"paid_at,omitempty"`
}

const commissionDetailSQL = `SELECT c.id, c.affiliate_id, c.booking_id, ac.code, d.name,
		c.amount_cents, c.status, c.created_at, c.paid_at
	FROM commissions c
	JOIN affiliate_codes ac ON ac.id = c.code_id
	JOIN bookings b ON b.id = c.booking_id
	JOIN destinations d ON d.id = b.destination_id`

func scanCommissionDetail(rows *sql.Rows) (CommissionDetail, error) {
	var d CommissionDetail
	var createdAt time.Time
	var paidAt sql.NullTime
	if err := rows.Scan(&d.ID, &d.AffiliateID, &d.BookingID, &d.Code, &d.Destination,
		&d.AmountCents, &d.Status, &createdAt, &paidAt); err != nil {
		return d, err
	}
	d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	if paidAt.Valid {
		iso := paidAt.Time.UTC().Format(time.RFC3339)
		d.PaidAt = &iso
	}
	return d, nil
}

// ListByAffiliate returns an affiliate's commissions, newest first.
func (r *CommissionRepo) ListByAffiliate(ctx context.Context, affiliateID uint64) ([]CommissionDetail, error) {
	q := commissionDetailSQL + ` WHERE c.affiliate_id = ? ORDER BY c.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, affiliateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CommissionDetail, 0)
	for rows.Next() {
		d, err := scanCommissionDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListAdmin returns commissions across all affiliates, optionally
// filtered by status or affiliate, newest first.
func (r *CommissionRepo) ListAdmin(ctx context.Context, status string, affiliateID uint64) ([]CommissionDetail, error) {
	where := []string{"1=1"}
	args := []any{}
	if status != "" {
		where = append(where, "c.status = ?")
		args = append(args, strings.ToUpper(status))
	}
	if affiliateID != 0 {
		where = append(where, "c.affiliate_id = ?")
		args = append(args, affiliateID)
	}
	q := commissionDetailSQL + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY c.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CommissionDetail, 0)
	for rows.Next() {
		d, err := scanCommissionDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Summary aggregates an affiliate's earnings.
type Summary struct {
	TotalEarnedCents uint64 `json:"total_earned_cents"`
	TotalPaidCents   uint64 `json:"total_paid_cents"`
	PendingCents     uint64 `json:"pending_cents"`
	BookingCount     uint64 `json:"booking_count"`
}

// Summarize computes lifetime totals for an affiliate. EARNED and PAID
// both count toward total earned; PAID alone toward total paid.
func (r *CommissionRepo) Summarize(ctx context.Context, affiliateID uint64) (Summary, error) {
	const q = `SELECT
			COALESCE(SUM(CASE WHEN status IN ('EARNED','PAID') THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'PAID' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'EARNED' THEN amount_cents ELSE 0 END), 0),
			COUNT(CASE WHEN status IN ('EARNED','PAID') THEN 1 END)
		FROM commissions WHERE affiliate_id = ?`
	var s Summary
	err := r.db.QueryRowContext(ctx, q, affiliateID).
		Scan(&s.TotalEarnedCents, &s.TotalPaidCents, &s.PendingCents, &s.BookingCount)
	return s, err
}
