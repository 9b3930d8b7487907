package repository

import (
	"context"
	"database/sql"

	"github.com/triply/triply-backend/internal/model"
)

// ActivityRepo manages merchant-submitted activities and their
// moderation state.
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo returns a new ActivityRepo bound to the given database.
func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

const activityCols = "id, merchant_id, destination_id, title, description, price_cents, duration_minutes, status, created_at, updated_at"

func scanActivity(row interface{ Scan(...any) error }) (model.Activity, error) {
	var a model.Activity
	err := row.Scan(&a.ID, &a.MerchantID, &a.DestinationID, &a.Title, &a.Description,
		&a.PriceCents, &a.DurationMinutes, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create inserts a PENDING activity and populates the generated ID.
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	const q = `INSERT INTO activities
		(merchant_id, destination_id, title, description, price_cents, duration_minutes, status)
		VALUES (?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		a.MerchantID, a.DestinationID, a.Title, a.Description,
		a.PriceCents, a.DurationMinutes, model.ActivityPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.Status = model.ActivityPending
	return nil
}

// UpdateOwn rewrites a merchant's own activity and resets it to
// PENDING so edits to approved content are re-moderated. It returns
// sql.ErrNoRows for missing activities and ErrForbidden for someone
// else's.
func (r *ActivityRepo) UpdateOwn(ctx context.Context, a *model.Activity) error {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT merchant_id FROM activities WHERE id = ?", a.ID).Scan(&ownerID)
	if err != nil {
		return err
	}
	if ownerID != a.MerchantID {
		return ErrForbidden
	}
	const q = `UPDATE activities
		SET title=?, description=?, price_cents=?, duration_minutes=?, status=?
		WHERE id=?`
	_, err = r.db.ExecContext(ctx, q,
		a.Title, a.Description, a.PriceCents, a.DurationMinutes, model.ActivityPending, a.ID)
	if err == nil {
		a.Status = model.ActivityPending
	}
	return err
}

// Moderate sets an activity's status to APPROVED or REJECTED. It
// returns sql.ErrNoRows when the activity does not exist.
func (r *ActivityRepo) Moderate(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE activities SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM activities WHERE id=?", id).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// ListByMerchant returns a merchant's own submissions in every state,
// newest first.
func (r *ActivityRepo) ListByMerchant(ctx context.Context, merchantID uint64) ([]model.Activity, error) {
	const q = "SELECT " + activityCols + " FROM activities WHERE merchant_id = ? ORDER BY created_at DESC"
	return r.list(ctx, q, merchantID)
}

// ListApprovedByDestination returns approved activities for a
// destination, for the public API.
func (r *ActivityRepo) ListApprovedByDestination(ctx context.Context, destinationID uint64) ([]model.Activity, error) {
	const q = "SELECT " + activityCols + " FROM activities WHERE destination_id = ? AND status = 'APPROVED' ORDER BY title"
	return r.list(ctx, q, destinationID)
}

// ListPending returns activities awaiting moderation, oldest first so
// admins work through the backlog in order.
func (r *ActivityRepo) ListPending(ctx context.Context) ([]model.Activity, error) {
	const q = "SELECT " + activityCols + " FROM activities WHERE status = 'PENDING' ORDER BY created_at"
	return r.list(ctx, q)
}

func (r *ActivityRepo) list(ctx context.Context, query string, args ...any) ([]model.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
