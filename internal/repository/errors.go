// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers such
// as handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to operate on a resource owned by someone else, while
// ErrSlotsUnavailable signals that a date selection lost the race for
// the last slot on some date.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as replaying a payment reference that is
// already attached to a different booking. Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrDestinationNotFound is returned when a destination lookup by id or
// slug matches no row.
var ErrDestinationNotFound = errors.New("destination not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrCodeNotFound is returned when a referral code lookup matches no
// active row.
var ErrCodeNotFound = errors.New("affiliate code not found")

// ErrSlotsUnavailable is returned when one or more dates of a requested
// stay are blocked, missing or fully booked.
var ErrSlotsUnavailable = errors.New("slots unavailable")
