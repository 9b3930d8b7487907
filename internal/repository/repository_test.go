package repository

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeLocale(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"de-AT", "de"},
		{"de_AT", "de"},
		{"fr-CA;q=0.8", "fr"},
		{"pt-BR,pt;q=0.9", "pt"},
		{"  es ", "es"},
		{"", "en"},
		{"   ", "en"},
	}
	for _, tc := range cases {
		if got := NormalizeLocale(tc.in); got != tc.want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBulkUpsertQueryBlockedFlag(t *testing.T) {
	// Capacity reseeding must leave previously blocked dates blocked.
	q := bulkUpsertQuery(3, false)
	if strings.Contains(q, "is_blocked = VALUES(is_blocked)") {
		t.Error("query without blocked flags must not overwrite is_blocked")
	}
	if got := strings.Count(q, "(?, ?, ?, ?)"); got != 3 {
		t.Errorf("placeholder rows = %d, want 3", got)
	}

	// Explicit entries carry the flag and may flip it both ways.
	q = bulkUpsertQuery(1, true)
	if !strings.Contains(q, "is_blocked = VALUES(is_blocked)") {
		t.Error("query with blocked flags must write is_blocked")
	}
	if !strings.Contains(q, "GREATEST(VALUES(available_slots), booked_slots)") {
		t.Error("capacity must never drop below booked slots")
	}
}

func TestDateArg(t *testing.T) {
	// Times east of UTC must not shift to the previous or next day.
	loc := time.FixedZone("UTC+11", 11*3600)
	d := time.Date(2026, 4, 2, 1, 30, 0, 0, loc)
	if got := dateArg(d); got != "2026-04-01" {
		t.Errorf("dateArg = %q, want 2026-04-01", got)
	}
	utc := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	if got := dateArg(utc); got != "2026-04-02" {
		t.Errorf("dateArg = %q, want 2026-04-02", got)
	}
}
