package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/triply/triply-backend/internal/model"
)

// DestinationRepo provides CRUD operations for destinations. Public
// reads only see active rows; admin endpoints see everything.
type DestinationRepo struct {
	db *sql.DB
}

// NewDestinationRepo returns a new DestinationRepo bound to the given database.
func NewDestinationRepo(db *sql.DB) *DestinationRepo { return &DestinationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning destinations, availability and bookings.
func (r *DestinationRepo) DB() *sql.DB { return r.db }

const destCols = "id, name, slug, country, description, deposit_cents, total_price_cents, default_capacity, commission_bps, is_active, created_at, updated_at"

func scanDestination(row interface{ Scan(...any) error }) (model.Destination, error) {
	var d model.Destination
	err := row.Scan(&d.ID, &d.Name, &d.Slug, &d.Country, &d.Description,
		&d.DepositCents, &d.TotalPriceCents, &d.DefaultCapacity, &d.CommissionBps,
		&d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// Create inserts a destination and populates the generated ID. The
// unique index on slug turns duplicates into ErrConflict.
func (r *DestinationRepo) Create(ctx context.Context, d *model.Destination) error {
	const q = `INSERT INTO destinations
		(name, slug, country, description, deposit_cents, total_price_cents, default_capacity, commission_bps, is_active)
		VALUES (?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		d.Name, d.Slug, d.Country, d.Description,
		d.DepositCents, d.TotalPriceCents, d.DefaultCapacity, d.CommissionBps, d.IsActive)
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
	d.ID = uint64(id)
	return nil
}

// Update rewrites all editable columns of a destination. It returns
// ErrDestinationNotFound when the row does not exist.
func (r *DestinationRepo) Update(ctx context.Context, d *model.Destination) error {
	const q = `UPDATE destinations SET
		name=?, slug=?, country=?, description=?, deposit_cents=?, total_price_cents=?,
		default_capacity=?, commission_bps=?, is_active=?
		WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		d.Name, d.Slug, d.Country, d.Description,
		d.DepositCents, d.TotalPriceCents, d.DefaultCapacity, d.CommissionBps, d.IsActive,
		d.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 for no-op updates; confirm existence.
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM destinations WHERE id=?", d.ID).Scan(&one); err == sql.ErrNoRows {
			return ErrDestinationNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// Deactivate hides a destination from the public API without deleting
// history. Existing bookings keep their captured prices.
func (r *DestinationRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE destinations SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDestinationNotFound
	}
	return nil
}

// GetByID fetches a destination regardless of active flag.
func (r *DestinationRepo) GetByID(ctx context.Context, id uint64) (model.Destination, error) {
	const q = "SELECT " + destCols + " FROM destinations WHERE id=? LIMIT 1"
	d, err := scanDestination(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return d, ErrDestinationNotFound
	}
	return d, err
}

// GetActiveBySlug fetches an active destination by slug for public
// detail pages.
func (r *DestinationRepo) GetActiveBySlug(ctx context.Context, slug string) (model.Destination, error) {
	const q = "SELECT " + destCols + " FROM destinations WHERE slug=? AND is_active=1 LIMIT 1"
	d, err := scanDestination(r.db.QueryRowContext(ctx, q, strings.ToLower(strings.TrimSpace(slug))))
	if err == sql.ErrNoRows {
		return d, ErrDestinationNotFound
	}
	return d, err
}

// GetActiveByIDTx fetches an active destination inside a transaction.
// Customer booking creation uses it to capture deposit and price at
// the moment of booking.
func (r *DestinationRepo) GetActiveByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Destination, error) {
	const q = "SELECT " + destCols + " FROM destinations WHERE id=? AND is_active=1 LIMIT 1"
	d, err := scanDestination(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return d, ErrDestinationNotFound
	}
	return d, err
}

// ListAdmin returns all destinations ordered by name, including
// inactive ones.
func (r *DestinationRepo) ListAdmin(ctx context.Context) ([]model.Destination, error) {
	const q = "SELECT " + destCols + " FROM destinations ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Destination, 0)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
