package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/config"
	"github.com/triply/triply-backend/internal/utils"
)

func testContext(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "203.0.113.9:1234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(target)
	return c
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cases := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:203.0.113.9"},
		{"user", "rl:user:anon"},
		{"route", "rl:route:GET /v1/destinations"},
		{"ip_user", "rl:ip:203.0.113.9:user:anon"},
		{"ip_route", "rl:ip:203.0.113.9:route:GET /v1/destinations"},
		{"user_route", "rl:user:anon:route:GET /v1/destinations"},
		{"ip_user_route", "rl:ip:203.0.113.9:user:anon:route:GET /v1/destinations"},
		{"bogus", "rl:ip:203.0.113.9:user:anon:route:GET /v1/destinations"},
	}
	for _, tc := range cases {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tc.strategy}
		c := testContext("GET", "/v1/destinations")
		if got := buildRateKey(cfg, c); got != tc.want {
			t.Errorf("strategy %s: key = %q, want %q", tc.strategy, got, tc.want)
		}
	}
}

func TestBuildRateKeyAuthenticatedUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	c := testContext("GET", "/v1/my-bookings")
	c.Set("user_id", float64(42)) // JWT claims decode numbers as float64
	if got := buildRateKey(cfg, c); got != "rl:user:42" {
		t.Errorf("key = %q, want rl:user:42", got)
	}
}

func TestBuildRateKeyDerivesUserFromBearer(t *testing.T) {
	const secret = "limiter-secret"
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user", JWTSecret: secret}

	keyFor := func(userID uint64) string {
		at, err := utils.NewAccessToken(secret, userID, "USER", 15)
		if err != nil {
			t.Fatalf("NewAccessToken: %v", err)
		}
		c := testContext("GET", "/v1/my-bookings")
		// No auth middleware has run; only the header identifies the user.
		c.Request().Header.Set("Authorization", "Bearer "+at.Token)
		return buildRateKey(cfg, c)
	}

	if got := keyFor(7); got != "rl:user:7" {
		t.Errorf("key = %q, want rl:user:7", got)
	}
	if keyFor(7) == keyFor(8) {
		t.Error("different users must land in different buckets")
	}

	// A token signed with another secret counts as anonymous.
	at, err := utils.NewAccessToken("other-secret", 7, "USER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	c := testContext("GET", "/v1/my-bookings")
	c.Request().Header.Set("Authorization", "Bearer "+at.Token)
	if got := buildRateKey(cfg, c); got != "rl:user:anon" {
		t.Errorf("key = %q, want rl:user:anon", got)
	}
}

func TestAsInt64(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int64
	}{
		{int64(7), 7},
		{int32(7), 7},
		{7, 7},
		{7.9, 7},
		{"7", 7},
		{"seven", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := asInt64(tc.in); got != tc.want {
			t.Errorf("asInt64(%#v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTokenBucketPassThroughWithoutRedis(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return nil
	})
	if err := h(testContext("GET", "/healthz")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Error("limiter without redis should pass requests through")
	}
}
