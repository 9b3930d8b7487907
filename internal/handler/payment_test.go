package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/config"
	"github.com/triply/triply-backend/internal/model"
	"github.com/triply/triply-backend/internal/repository"
)

func webhookRequest(t *testing.T, secret, body string) (*PaymentHandler, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	h := NewPaymentHandler(
		config.Config{WebhookSecret: "hook-secret"},
		repository.NewBookingRepo(nil),
		repository.NewUserRepo(nil),
	)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/payments/deposit/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	rec := httptest.NewRecorder()
	return h, e.NewContext(req, rec), rec
}

func TestDepositWebhookRejectsBadSecret(t *testing.T) {
	for _, secret := range []string{"", "wrong"} {
		h, c, rec := webhookRequest(t, secret, `{"booking_id":1,"payment_ref":"p-1","amount_cents":500}`)
		if err := h.DepositWebhook(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("secret %q: status = %d, want 401", secret, rec.Code)
		}
	}
}

func TestDepositReplayed(t *testing.T) {
	// Two concurrent first deliveries of the same reference: the loser
	// acquires the row lock after the winner committed and must see a
	// replay, never a state conflict.
	ref := "p-1"
	paid := model.Booking{ID: 1, Status: model.BookingDepositPaid, PaymentRef: &ref}
	if !depositReplayed(paid, "p-1") {
		t.Error("matching reference on a paid booking is a replay")
	}
	if depositReplayed(paid, "p-2") {
		t.Error("a different reference is not a replay")
	}
	if depositReplayed(model.Booking{ID: 1, Status: model.BookingPendingDeposit}, "p-1") {
		t.Error("a booking without a reference has nothing to replay")
	}
}

func TestDepositWebhookValidatesBody(t *testing.T) {
	cases := []string{
		`{"payment_ref":"p-1","amount_cents":500}`,
		`{"booking_id":1,"amount_cents":500}`,
		`not json`,
	}
	for _, body := range cases {
		h, c, rec := webhookRequest(t, "hook-secret", body)
		if err := h.DepositWebhook(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}
