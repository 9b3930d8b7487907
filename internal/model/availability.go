package model

import "time"

// Availability tracks per-date capacity for a destination. One row per
// destination per date. booked_slots never exceeds available_slots;
// the repository enforces that with a conditional UPDATE so concurrent
// date selections cannot oversubscribe a date.
//
// Fields:
//  ID             – primary key identifier.
//  DestinationID  – destination this date belongs to.
//  Date           – calendar date (stored as DATE, midnight UTC here).
//  AvailableSlots – capacity for the date.
//  BookedSlots    – slots already consumed by bookings.
//  IsBlocked      – blocked dates reject selection regardless of slots.
//  UpdatedAt      – last update timestamp.
type Availability struct {
	ID             uint64    // availability.id
	DestinationID  uint64    // availability.destination_id
	Date           time.Time // availability.date
	AvailableSlots uint32    // availability.available_slots
	BookedSlots    uint32    // availability.booked_slots
	IsBlocked      bool      // availability.is_blocked
	UpdatedAt      time.Time // availability.updated_at
}

// SlotsLeft returns the remaining capacity for the date, zero when
// blocked.
func (a Availability) SlotsLeft() uint32 {
	if a.IsBlocked || a.BookedSlots >= a.AvailableSlots {
		return 0
	}
	return a.AvailableSlots - a.BookedSlots
}
