package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserID(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"float64 from jwt claims", float64(42), 42, true},
		{"uint64", uint64(7), 7, true},
		{"int", 7, 7, true},
		{"numeric string", "19", 19, true},
		{"garbage string", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		c := newTestContext("/")
		if tc.value != nil {
			c.Set("user_id", tc.value)
		}
		got, err := getUserID(c)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("%s: got (%d, %v), want (%d, nil)", tc.name, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query            string
		wantPage, wantPS int
	}{
		{"", 1, 20},
		{"?page=3&page_size=50", 3, 50},
		{"?page=0&page_size=0", 1, 20},
		{"?page=-2&page_size=9999", 1, 100},
		{"?page=abc&page_size=abc", 1, 20},
	}
	for _, tc := range cases {
		c := newTestContext("/v1/admin/bookings" + tc.query)
		page, pageSize := pageParams(c)
		if page != tc.wantPage || pageSize != tc.wantPS {
			t.Errorf("%q: got (%d, %d), want (%d, %d)", tc.query, page, pageSize, tc.wantPage, tc.wantPS)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-07-15")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if want := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC); !d.Equal(want) {
		t.Errorf("parseDate = %v, want %v", d, want)
	}
	for _, bad := range []string{"", "15-07-2026", "2026-13-40", "tomorrow"} {
		if _, err := parseDate(bad); err == nil {
			t.Errorf("parseDate(%q) should fail", bad)
		}
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()
	run := func(raw string) (uint64, error) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		return pathID(c, "id")
	}

	if id, err := run("12"); err != nil || id != 12 {
		t.Errorf("pathID(12) = (%d, %v)", id, err)
	}
	for _, bad := range []string{"0", "-1", "abc", ""} {
		if _, err := run(bad); err == nil {
			t.Errorf("pathID(%q) should fail", bad)
		}
	}
}
