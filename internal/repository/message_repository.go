package repository

import (
	"context"
	"database/sql"

	"github.com/triply/triply-backend/internal/model"
)

// MessageRepo stores contact-form messages and admin replies.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo returns a new MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

const messageCols = "id, name, email, subject, body, is_read, reply, replied_at, created_at"

func scanMessage(row interface{ Scan(...any) error }) (model.Message, error) {
	var m model.Message
	var reply sql.NullString
	var repliedAt sql.NullTime
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.IsRead, &reply, &repliedAt, &m.CreatedAt)
	if err != nil {
		return m, err
	}
	if reply.Valid {
		v := reply.String
		m.Reply = &v
	}
	if repliedAt.Valid {
		t := repliedAt.Time
		m.RepliedAt = &t
	}
	return m, nil
}

// Create inserts a contact message and populates the generated ID.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (name, email, subject, body) VALUES (?,?,?,?)",
		m.Name, m.Email, m.Subject, m.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID loads a single message.
func (r *MessageRepo) GetByID(ctx context.Context, id uint64) (model.Message, error) {
	const q = "SELECT " + messageCols + " FROM messages WHERE id = ? LIMIT 1"
	return scanMessage(r.db.QueryRowContext(ctx, q, id))
}

// List returns messages newest first, optionally only unread ones,
// along with the total count for pagination.
func (r *MessageRepo) List(ctx context.Context, unreadOnly bool, page, pageSize int) ([]model.Message, int64, error) {
	cond := "1=1"
	if unreadOnly {
		cond = "is_read = 0"
	}
	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE "+cond).Scan(&total); err != nil {
		return nil, 0, err
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	q := "SELECT " + messageCols + " FROM messages WHERE " + cond + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Message, 0, pageSize)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

// MarkRead flags a message as seen. Returns sql.ErrNoRows when the
// message does not exist.
func (r *MessageRepo) MarkRead(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE messages SET is_read=1 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM messages WHERE id=?", id).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// Reply records an admin reply; the message is also marked read.
func (r *MessageRepo) Reply(ctx context.Context, id uint64, reply string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE messages SET reply=?, replied_at=NOW(), is_read=1 WHERE id=?", reply, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM messages WHERE id=?", id).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}
