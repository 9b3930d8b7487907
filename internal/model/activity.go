package model

import "time"

// Activity statuses. Merchant submissions start PENDING and become
// visible to the public only after an admin approves them. Editing an
// approved activity sends it back to PENDING for re-moderation.
const (
	ActivityPending  = "PENDING"
	ActivityApproved = "APPROVED"
	ActivityRejected = "REJECTED"
)

// Activity is a third-party excursion or experience submitted by a
// MERCHANT user for a destination.
//
// Fields:
//  ID              – primary key identifier.
//  MerchantID      – submitting user (role MERCHANT).
//  DestinationID   – destination the activity belongs to.
//  Title           – short activity title.
//  Description     – long-form description.
//  PriceCents      – per-person price in cents.
//  DurationMinutes – approximate duration.
//  Status          – one of the Activity* constants above.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Activity struct {
	ID              uint64    // activities.id
	MerchantID      uint64    // activities.merchant_id
	DestinationID   uint64    // activities.destination_id
	Title           string    // activities.title
	Description     string    // activities.description
	PriceCents      uint32    // activities.price_cents
	DurationMinutes uint32    // activities.duration_minutes
	Status          string    // activities.status
	CreatedAt       time.Time // activities.created_at
	UpdatedAt       time.Time // activities.updated_at
}
