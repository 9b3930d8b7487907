package model

import "time"

// Booking statuses. A booking starts PENDING_DEPOSIT when created,
// becomes DEPOSIT_PAID once the payment webhook lands, DATES_SELECTED
// when the customer picks travel dates inside the booking window, and
// ends CONFIRMED or REJECTED by admin decision. CANCELLED is reachable
// from every non-terminal state.
const (
	BookingPendingDeposit = "PENDING_DEPOSIT"
	BookingDepositPaid    = "DEPOSIT_PAID"
	BookingDatesSelected  = "DATES_SELECTED"
	BookingConfirmed      = "CONFIRMED"
	BookingRejected       = "REJECTED"
	BookingCancelled      = "CANCELLED"
)

// BookingWindowDays is how long a paid deposit keeps the booking
// calendar open for date selection.
const BookingWindowDays = 365

// bookingTransitions is the guard table for status changes. Only the
// listed successors are legal; everything else is a transition error.
var bookingTransitions = map[string][]string{
	BookingPendingDeposit: {BookingDepositPaid, BookingCancelled},
	BookingDepositPaid:    {BookingDatesSelected, BookingCancelled},
	BookingDatesSelected:  {BookingDatesSelected, BookingConfirmed, BookingRejected, BookingCancelled},
	BookingConfirmed:      {},
	BookingRejected:       {},
	BookingCancelled:      {},
}

// CanTransition reports whether a booking may move from one status to
// another. Re-selecting dates while already DATES_SELECTED is allowed
// so customers can change their mind before the admin decides.
func CanTransition(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TerminalStatus reports whether a booking status admits no further
// transitions.
func TerminalStatus(s string) bool {
	next, ok := bookingTransitions[s]
	return ok && len(next) == 0
}

// Booking represents a row in the `bookings` table.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – customer who created the booking.
//  DestinationID   – destination being reserved.
//  AffiliateCodeID – referral code used at creation, if any.
//  PartySize       – number of travelers.
//  Status          – one of the Booking* constants above.
//  DepositCents    – deposit captured from the destination at creation.
//  TotalPriceCents – per-person price captured at creation.
//  PaymentRef      – external payment reference set by the webhook.
//  WindowStartsAt  – start of the date-selection window (deposit time).
//  WindowEndsAt    – end of the date-selection window.
//  StartDate       – selected check-in date (nullable until selection).
//  EndDate         – selected check-out date.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64     // bookings.id
	UserID          uint64     // bookings.user_id
	DestinationID   uint64     // bookings.destination_id
	AffiliateCodeID *uint64    // bookings.affiliate_code_id (nullable)
	PartySize       uint32     // bookings.party_size
	Status          string     // bookings.status
	DepositCents    uint32     // bookings.deposit_cents
	TotalPriceCents uint32     // bookings.total_price_cents
	PaymentRef      *string    // bookings.payment_ref (nullable, unique)
	WindowStartsAt  *time.Time // bookings.window_starts_at (nullable)
	WindowEndsAt    *time.Time // bookings.window_ends_at (nullable)
	StartDate       *time.Time // bookings.start_date (nullable)
	EndDate         *time.Time // bookings.end_date (nullable)
	CreatedAt       time.Time  // bookings.created_at
	UpdatedAt       time.Time  // bookings.updated_at
}

// WindowFor returns the date-selection window opened by a deposit paid
// at the given time.
func WindowFor(paidAt time.Time) (time.Time, time.Time) {
	start := paidAt.UTC()
	return start, start.AddDate(0, 0, BookingWindowDays)
}

// InWindow reports whether the whole stay [start, end) falls inside
// the booking window.
func (b Booking) InWindow(start, end time.Time) bool {
	if b.WindowStartsAt == nil || b.WindowEndsAt == nil {
		return false
	}
	day := b.WindowStartsAt.Truncate(24 * time.Hour)
	return !start.Before(day) && !end.After(*b.WindowEndsAt)
}

// Nights returns the number of nights between check-in and check-out.
// A stay consumes one availability slot per night.
func Nights(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// StayDates expands [start, end) into the individual nights of the
// stay. The check-out date itself is not included.
func StayDates(start, end time.Time) []time.Time {
	n := Nights(start, end)
	if n <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, n)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
