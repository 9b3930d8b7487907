package model

import "time"

// Translation is a single localized string. Keys are grouped into
// namespaces ("common", "destinations", ...) so clients can fetch a
// whole namespace per locale in one request.
//
// Fields:
//  ID        – primary key identifier.
//  Locale    – BCP-47-ish locale tag ("en", "de", "fr").
//  Namespace – logical grouping of keys.
//  Key       – translation key, unique within (locale, namespace).
//  Value     – translated string.
//  UpdatedAt – last update timestamp.
type Translation struct {
	ID        uint64    // translations.id
	Locale    string    // translations.locale
	Namespace string    // translations.namespace
	Key       string    // translations.tkey
	Value     string    // translations.value
	UpdatedAt time.Time // translations.updated_at
}

// DefaultLocale is the fallback when a requested locale has no row for
// a key. Destination rows themselves are authored in this locale.
const DefaultLocale = "en"
