// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used on the broker. Both queues are durable and carry
// persistent JSON messages.
const (
	BookingConfirmedQueue = "booking.confirmed"
	EmailSendQueue        = "email.send"
)

// Email template names carried in EmailSendEvent.
const (
	TemplateDepositReceipt  = "deposit_receipt"
	TemplateBookingDecision = "booking_decision"
	TemplateMessageReply    = "message_reply"
)

// BookingConfirmedEvent is published when an admin confirms a booking.
// It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	UserID          uint64 `json:"user_id"`
	UserEmail       string `json:"user_email"`
	DestinationID   uint64 `json:"destination_id"`
	DestinationName string `json:"destination_name"`
	PartySize       uint32 `json:"party_size"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	DepositCents    uint32 `json:"deposit_cents"`
	TotalPriceCents uint32 `json:"total_price_cents"`
	AffiliateCode   string `json:"affiliate_code,omitempty"`
	ConfirmedAt     string `json:"confirmed_at"`
}

// EmailSendEvent asks the email worker to deliver one transactional
// email. Body is pre-rendered by the publisher; the worker only logs
// and forwards.
type EmailSendEvent struct {
	Recipient string `json:"recipient"`
	Template  string `json:"template"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	QueuedAt  string `json:"queued_at"`
}
