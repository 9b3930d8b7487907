package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"items":[]}`)

	raw, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(raw)
	if !ok {
		t.Fatal("decodePayload failed")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if ct := gotHdr.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, []byte("short"), {0, 0, 0, 200, 0, 0, 0, 99}} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Errorf("decodePayload(%v) should fail", bs)
		}
	}
}

func TestCacheKeyVariesByLocale(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	keyFor := func(lang string) string {
		req := httptest.NewRequest(http.MethodGet, "/v1/destinations?country=Italy", nil)
		if lang != "" {
			req.Header.Set("Accept-Language", lang)
		}
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/destinations")
		return cacheKeyFrom(cfg, c)
	}

	en := keyFor("en-US,en;q=0.9")
	de := keyFor("de-DE")
	if en == de {
		t.Error("keys for different locales must differ")
	}
	// Primary subtag matters, the regional variant does not.
	if keyFor("en-US") != keyFor("en-GB") {
		t.Error("keys for the same primary subtag should match")
	}
}

func TestCacheKeyVariesByPathParam(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	keyFor := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		// Echo resolves both requests to the same route pattern; the
		// cache must still keep their entries apart.
		c.SetPath("/v1/destinations/:slug")
		return cacheKeyFrom(cfg, c)
	}

	if keyFor("/v1/destinations/paris") == keyFor("/v1/destinations/rome") {
		t.Error("keys for different path parameters must differ")
	}
	if keyFor("/v1/destinations/paris") != keyFor("/v1/destinations/paris") {
		t.Error("key for the same path must be stable")
	}
}

func TestCacheableSkipsAuthorizedRequests(t *testing.T) {
	cfg := config.CacheConfig{Methods: map[string]bool{"GET": true}}

	req := httptest.NewRequest(http.MethodGet, "/v1/my-bookings", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	if cacheable(cfg, req) {
		t.Error("requests carrying credentials must never be cached")
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/destinations", nil)
	if !cacheable(cfg, req) {
		t.Error("anonymous GET should be cacheable")
	}
	if cacheable(cfg, httptest.NewRequest(http.MethodPost, "/v1/messages", nil)) {
		t.Error("methods outside the configured set should not be cacheable")
	}
}

func TestCachePassThroughWithoutRedis(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/destinations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Error("cache without redis should pass requests through")
	}
}
