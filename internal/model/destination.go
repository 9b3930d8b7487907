package model

import "time"

// Destination represents a bookable travel destination. Customers pay
// the destination's fixed deposit to reserve it; the remaining balance
// is settled offline. Pricing is stored in cents to avoid floating
// point drift, and the affiliate commission rate is stored in basis
// points (1/100th of a percent) for the same reason.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name of the destination.
//  Slug            – unique URL-safe identifier.
//  Country         – ISO-ish country name used for search and display.
//  Description     – long-form marketing description.
//  DepositCents    – fixed deposit required to reserve.
//  TotalPriceCents – full trip price per person.
//  DefaultCapacity – slots created per date when availability is seeded.
//  CommissionBps   – affiliate commission rate in basis points.
//  IsActive        – inactive destinations are hidden from the public API.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Destination struct {
	ID              uint64    // destinations.id
	Name            string    // destinations.name
	Slug            string    // destinations.slug
	Country         string    // destinations.country
	Description     string    // destinations.description
	DepositCents    uint32    // destinations.deposit_cents
	TotalPriceCents uint32    // destinations.total_price_cents
	DefaultCapacity uint32    // destinations.default_capacity
	CommissionBps   uint32    // destinations.commission_bps
	IsActive        bool      // destinations.is_active
	CreatedAt       time.Time // destinations.created_at
	UpdatedAt       time.Time // destinations.updated_at
}

// CommissionCents computes the affiliate commission for a confirmed
// booking of this destination: rate applied to the full trip price,
// rounded down to the nearest cent.
func (d Destination) CommissionCents(partySize uint32) uint32 {
	total := uint64(d.TotalPriceCents) * uint64(partySize)
	return uint32(total * uint64(d.CommissionBps) / 10000)
}
