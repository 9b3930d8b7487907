package repository

import (
	"context"
	"database/sql"

	"github.com/triply/triply-backend/internal/model"
)

// EmailLogRepo records every email the platform attempted to send.
// Rows are written by the queue consumer.
type EmailLogRepo struct {
	db *sql.DB
}

// NewEmailLogRepo returns a new EmailLogRepo bound to the given database.
func NewEmailLogRepo(db *sql.DB) *EmailLogRepo { return &EmailLogRepo{db: db} }

// Insert writes one email log row. errMsg may be empty for successful
// sends.
func (r *EmailLogRepo) Insert(ctx context.Context, recipient, template, subject, status, errMsg string) error {
	var errArg any
	if errMsg != "" {
		errArg = errMsg
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO email_logs (recipient, template, subject, status, error) VALUES (?,?,?,?,?)",
		recipient, template, subject, status, errArg)
	return err
}

// ListRecent returns the newest email log rows for the admin audit
// view.
func (r *EmailLogRepo) ListRecent(ctx context.Context, limit int) ([]model.EmailLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `SELECT id, recipient, template, subject, status, error, created_at
		FROM email_logs ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.EmailLog, 0, limit)
	for rows.Next() {
		var l model.EmailLog
		var errMsg sql.NullString
		if err := rows.Scan(&l.ID, &l.Recipient, &l.Template, &l.Subject, &l.Status, &errMsg, &l.CreatedAt); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			v := errMsg.String
			l.Error = &v
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
