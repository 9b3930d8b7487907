package config

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	if got := envStr("X_STR", "d"); got != "value" {
		t.Errorf("envStr set = %q", got)
	}
	if got := envStr("X_STR_MISSING", "d"); got != "d" {
		t.Errorf("envStr default = %q", got)
	}

	t.Setenv("X_BOOL_ON", "yes")
	t.Setenv("X_BOOL_OFF", "0")
	t.Setenv("X_BOOL_BAD", "maybe")
	if !envBool("X_BOOL_ON", false) {
		t.Error("envBool yes should be true")
	}
	if envBool("X_BOOL_OFF", true) {
		t.Error("envBool 0 should be false")
	}
	if !envBool("X_BOOL_BAD", true) {
		t.Error("envBool should fall back to default on garbage")
	}

	t.Setenv("X_INT", "17")
	t.Setenv("X_INT_BAD", "seventeen")
	if got := envInt("X_INT", 1); got != 17 {
		t.Errorf("envInt = %d", got)
	}
	if got := envInt("X_INT_BAD", 1); got != 1 {
		t.Errorf("envInt garbage = %d, want default", got)
	}

	t.Setenv("X_DUR", "250ms")
	if got := envDur("X_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("envDur = %v", got)
	}
	if got := envDur("X_DUR_MISSING", time.Second); got != time.Second {
		t.Errorf("envDur default = %v", got)
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "-5")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Errorf("Capacity = %d, want clamp to 1", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Errorf("RefillTokens = %d, want clamp to 1", cfg.RefillTokens)
	}
	// TTL shorter than five refill intervals gets raised.
	if want := 10 * time.Second; cfg.TTL != want {
		t.Errorf("TTL = %v, want %v", cfg.TTL, want)
	}
}

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, head ,POST")
	for _, want := range []string{"GET", "HEAD", "POST"} {
		if !m[want] {
			t.Errorf("method %s missing", want)
		}
	}
	if len(m) != 3 {
		t.Errorf("got %d methods, want 3", len(m))
	}
	if len(parseMethods("")) != 0 {
		t.Error("empty input should produce no methods")
	}
}
