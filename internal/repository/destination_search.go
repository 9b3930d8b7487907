package repository

import (
	"context"
	"strings"
)

// DestinationSearchQuery defines filters & pagination for the public
// destination list.
type DestinationSearchQuery struct {
	Text     string // matches name, country or description
	Country  string // exact-ish country filter
	Page     int
	PageSize int
}

// PublicDestinationRow is the sanitized shape returned to guests.
// Prices are exposed both in cents and as a float for display.
type PublicDestinationRow struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Country      string  `json:"country"`
	Description  string  `json:"description"`
	DepositCents uint32  `json:"deposit_cents"`
	Deposit      float64 `json:"deposit"`
	PriceCents   uint32  `json:"price_cents"`
	Price        float64 `json:"price"`
}

// Search returns active destinations matching the query along with the
// total match count for pagination headers.
func (r *DestinationRepo) Search(ctx context.Context, q DestinationSearchQuery) ([]PublicDestinationRow, int64, error) {
	where := []string{"d.is_active = 1"}
	args := []any{}

	if q.Text != "" {
		where = append(where, "(LOWER(d.name) LIKE ? OR LOWER(d.country) LIKE ? OR LOWER(d.description) LIKE ?)")
		pat := "%" + strings.ToLower(q.Text) + "%"
		args = append(args, pat, pat, pat)
	}
	if q.Country != "" {
		where = append(where, "LOWER(d.country) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Country)+"%")
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*) FROM destinations d WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			d.id,
			d.name,
			d.slug,
			d.country,
			d.description,
			d.deposit_cents,
			d.total_price_cents
		FROM destinations d
		WHERE ` + cond + `
		ORDER BY d.name
		LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, dataSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicDestinationRow, 0, limit)
	for rows.Next() {
		var row PublicDestinationRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Slug, &row.Country, &row.Description,
			&row.DepositCents, &row.PriceCents); err != nil {
			return nil, 0, err
		}
		row.Deposit = float64(row.DepositCents) / 100
		row.Price = float64(row.PriceCents) / 100
		out = append(out, row)
	}
	return out, total, rows.Err()
}
