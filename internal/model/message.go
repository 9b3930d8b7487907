package model

import "time"

// Message is a contact-form submission. Anyone can create one; admins
// list, mark read and reply. Replies go out through the email queue.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – sender's display name.
//  Email     – sender's email address, used for the reply.
//  Subject   – message subject line.
//  Body      – message body.
//  IsRead    – set once an admin has seen the message.
//  Reply     – admin reply body (nullable until replied).
//  RepliedAt – when the reply was sent (nullable).
//  CreatedAt – creation timestamp.
type Message struct {
	ID        uint64     // messages.id
	Name      string     // messages.name
	Email     string     // messages.email
	Subject   string     // messages.subject
	Body      string     // messages.body
	IsRead    bool       // messages.is_read
	Reply     *string    // messages.reply (nullable)
	RepliedAt *time.Time // messages.replied_at (nullable)
	CreatedAt time.Time  // messages.created_at
}

// EmailLog statuses written by the email consumer.
const (
	EmailSent   = "SENT"
	EmailFailed = "FAILED"
)

// EmailLog records every email the platform attempted to send. Rows
// are written by the queue consumer, not by request handlers, so a
// broker outage never loses the audit trail for requests that did get
// through.
//
// Fields:
//  ID        – primary key identifier.
//  Recipient – destination email address.
//  Template  – logical template name (deposit_receipt, booking_decision, ...).
//  Subject   – rendered subject line.
//  Status    – SENT or FAILED.
//  Error     – failure detail when Status is FAILED (nullable).
//  CreatedAt – when the consumer processed the event.
type EmailLog struct {
	ID        uint64    // email_logs.id
	Recipient string    // email_logs.recipient
	Template  string    // email_logs.template
	Subject   string    // email_logs.subject
	Status    string    // email_logs.status
	Error     *string   // email_logs.error (nullable)
	CreatedAt time.Time // email_logs.created_at
}
