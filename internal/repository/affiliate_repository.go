package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/triply/triply-backend/internal/model"
	"github.com/triply/triply-backend/internal/utils"
)

// AffiliateRepo manages referral codes owned by AFFILIATE users.
type AffiliateRepo struct {
	db *sql.DB
}

// NewAffiliateRepo returns a new AffiliateRepo bound to the given database.
func NewAffiliateRepo(db *sql.DB) *AffiliateRepo { return &AffiliateRepo{db: db} }

// CreateCode generates and inserts a new referral code for an
// affiliate. Code uniqueness is enforced by the database; on the rare
// collision the insert is retried with a fresh code.
func (r *AffiliateRepo) CreateCode(ctx context.Context, affiliateID uint64, prefix string) (model.AffiliateCode, error) {
	var code model.AffiliateCode
	for attempt := 0; attempt < 3; attempt++ {
		candidate := utils.NewReferralCode(prefix)
		res, err := r.db.ExecContext(ctx,
			"INSERT INTO affiliate_codes (affiliate_id, code, is_active) VALUES (?,?,1)",
			affiliateID, candidate)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				continue
			}
			return code, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return code, err
		}
		code.ID = uint64(id)
		code.AffiliateID = affiliateID
		code.Code = candidate
		code.IsActive = true
		return code, nil
	}
	return code, ErrConflict
}

// ListByAffiliate returns all codes owned by an affiliate, newest
// first.
func (r *AffiliateRepo) ListByAffiliate(ctx context.Context, affiliateID uint64) ([]model.AffiliateCode, error) {
	const q = `SELECT id, affiliate_id, code, is_active, created_at
		FROM affiliate_codes WHERE affiliate_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, affiliateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AffiliateCode, 0)
	for rows.Next() {
		var c model.AffiliateCode
		if err := rows.Scan(&c.ID, &c.AffiliateID, &c.Code, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Deactivate turns a code off. It returns ErrForbidden when the code
// belongs to a different affiliate and ErrCodeNotFound when it does
// not exist.
func (r *AffiliateRepo) Deactivate(ctx context.Context, codeID, affiliateID uint64) error {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT affiliate_id FROM affiliate_codes WHERE id = ?", codeID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return ErrCodeNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != affiliateID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE affiliate_codes SET is_active=0 WHERE id=?", codeID)
	return err
}

// ResolveActiveTx looks up an active code by its string value inside a
// transaction, returning the row so booking creation can link it. It
// returns ErrCodeNotFound for unknown or inactive codes.
func (r *AffiliateRepo) ResolveActiveTx(ctx context.Context, tx *sql.Tx, code string) (model.AffiliateCode, error) {
	const q = `SELECT id, affiliate_id, code, is_active, created_at
		FROM affiliate_codes WHERE code = ? AND is_active = 1 LIMIT 1`
	var c model.AffiliateCode
	err := tx.QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(code))).
		Scan(&c.ID, &c.AffiliateID, &c.Code, &c.IsActive, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, ErrCodeNotFound
	}
	return c, err
}

// GetByIDTx loads a code by primary key inside a transaction. Booking
// confirmation uses it to find the commission recipient.
func (r *AffiliateRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.AffiliateCode, error) {
	const q = `SELECT id, affiliate_id, code, is_active, created_at
		FROM affiliate_codes WHERE id = ? LIMIT 1`
	var c model.AffiliateCode
	err := tx.QueryRowContext(ctx, q, id).
		Scan(&c.ID, &c.AffiliateID, &c.Code, &c.IsActive, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, ErrCodeNotFound
	}
	return c, err
}
