package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/triply/triply-backend/internal/model"
)

// TranslationRepo stores localized strings grouped by locale and
// namespace.
type TranslationRepo struct {
	db *sql.DB
}

// NewTranslationRepo returns a new TranslationRepo bound to the given database.
func NewTranslationRepo(db *sql.DB) *TranslationRepo { return &TranslationRepo{db: db} }

// Upsert writes one translation, replacing any existing value for the
// same (locale, namespace, key).
func (r *TranslationRepo) Upsert(ctx context.Context, t model.Translation) error {
	const q = `INSERT INTO translations (locale, namespace, tkey, value)
		VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)`
	_, err := r.db.ExecContext(ctx, q,
		normLocale(t.Locale), strings.TrimSpace(t.Namespace), strings.TrimSpace(t.Key), t.Value)
	return err
}

// Delete removes one translation key. Missing rows are not an error.
func (r *TranslationRepo) Delete(ctx context.Context, locale, namespace, key string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM translations WHERE locale=? AND namespace=? AND tkey=?",
		normLocale(locale), namespace, key)
	return err
}

// Namespace returns all key/value pairs of one namespace in one
// locale, as a flat map ready to serve to clients.
func (r *TranslationRepo) Namespace(ctx context.Context, locale, namespace string) (map[string]string, error) {
	const q = "SELECT tkey, value FROM translations WHERE locale=? AND namespace=?"
	rows, err := r.db.QueryContext(ctx, q, normLocale(locale), namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Lookup resolves a single key in the requested locale, falling back
// to the default locale when the row is missing. The second return
// reports whether any value was found.
func (r *TranslationRepo) Lookup(ctx context.Context, locale, namespace, key string) (string, bool, error) {
	const q = "SELECT value FROM translations WHERE locale=? AND namespace=? AND tkey=? LIMIT 1"
	var v string
	err := r.db.QueryRowContext(ctx, q, normLocale(locale), namespace, key).Scan(&v)
	if err == nil {
		return v, true, nil
	}
	if err != sql.ErrNoRows {
		return "", false, err
	}
	if normLocale(locale) == model.DefaultLocale {
		return "", false, nil
	}
	err = r.db.QueryRowContext(ctx, q, model.DefaultLocale, namespace, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// normLocale reduces an Accept-Language style tag to its primary
// subtag: "de-AT;q=0.9" -> "de".
func normLocale(locale string) string {
	locale = strings.TrimSpace(strings.ToLower(locale))
	if i := strings.IndexAny(locale, "-_;,"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" {
		return model.DefaultLocale
	}
	return locale
}

// NormalizeLocale is the exported form used by handlers to interpret
// Accept-Language headers.
func NormalizeLocale(locale string) string { return normLocale(locale) }
