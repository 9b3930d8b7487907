package model

import "time"

// AffiliateCode is a referral identifier owned by an AFFILIATE user.
// Bookings created with an active code are linked to the affiliate and
// earn a commission once the booking is confirmed.
//
// Fields:
//  ID          – primary key identifier.
//  AffiliateID – owning user (role AFFILIATE).
//  Code        – unique referral code handed out by the affiliate.
//  IsActive    – deactivated codes no longer attach to bookings.
//  CreatedAt   – creation timestamp.
type AffiliateCode struct {
	ID          uint64    // affiliate_codes.id
	AffiliateID uint64    // affiliate_codes.affiliate_id
	Code        string    // affiliate_codes.code
	IsActive    bool      // affiliate_codes.is_active
	CreatedAt   time.Time // affiliate_codes.created_at
}

// Commission statuses. A commission is EARNED when the referred
// booking is confirmed, PAID once the admin settles it, and CANCELLED
// if the booking is cancelled before payout.
const (
	CommissionEarned    = "EARNED"
	CommissionPaid      = "PAID"
	CommissionCancelled = "CANCELLED"
)

// Commission records an affiliate's earnings from a single confirmed
// booking.
//
// Fields:
//  ID          – primary key identifier.
//  AffiliateID – affiliate who earned the commission.
//  BookingID   – booking that produced it (one commission per booking).
//  CodeID      – referral code the booking was created with.
//  AmountCents – commission amount in cents.
//  Status      – one of the Commission* constants above.
//  CreatedAt   – when the commission was earned.
//  PaidAt      – when the admin marked it paid (nullable).
type Commission struct {
	ID          uint64     // commissions.id
	AffiliateID uint64     // commissions.affiliate_id
	BookingID   uint64     // commissions.booking_id
	CodeID      uint64     // commissions.code_id
	AmountCents uint32     // commissions.amount_cents
	Status      string     // commissions.status
	CreatedAt   time.Time  // commissions.created_at
	PaidAt      *time.Time // commissions.paid_at (nullable)
}
