package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/utils"
)

func TestJWTAuthValidToken(t *testing.T) {
	const secret = "test-secret"
	at, err := utils.NewAccessToken(secret, 7, "ADMIN", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser, gotRole interface{}
	h := JWTAuth(secret)(func(c echo.Context) error {
		gotUser = c.Get("user_id")
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if uid, _ := gotUser.(float64); uint64(uid) != 7 {
		t.Errorf("user_id = %v, want 7", gotUser)
	}
	if role, _ := gotRole.(string); role != "ADMIN" {
		t.Errorf("role = %v, want ADMIN", gotRole)
	}
}

func TestJWTAuthRejects(t *testing.T) {
	e := echo.New()
	mw := JWTAuth("secret")
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	// Missing header.
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	if err := mw(next)(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing header: status = %d, want 401", rec.Code)
	}

	// Token signed with a different secret.
	at, err := utils.NewAccessToken("other-secret", 7, "USER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec = httptest.NewRecorder()
	if err := mw(next)(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret: status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireRole("ADMIN", "AFFILIATE")

	run := func(role interface{}) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		if err := mw(next)(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		return rec.Code
	}

	if code := run("ADMIN"); code != http.StatusOK {
		t.Errorf("ADMIN: status = %d, want 200", code)
	}
	if code := run("AFFILIATE"); code != http.StatusOK {
		t.Errorf("AFFILIATE: status = %d, want 200", code)
	}
	if code := run("USER"); code != http.StatusForbidden {
		t.Errorf("USER: status = %d, want 403", code)
	}
	if code := run(nil); code != http.StatusForbidden {
		t.Errorf("no role: status = %d, want 403", code)
	}
}
