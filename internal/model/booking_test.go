package model

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{BookingPendingDeposit, BookingDepositPaid, true},
		{BookingPendingDeposit, BookingCancelled, true},
		{BookingPendingDeposit, BookingDatesSelected, false},
		{BookingPendingDeposit, BookingConfirmed, false},
		{BookingDepositPaid, BookingDatesSelected, true},
		{BookingDepositPaid, BookingCancelled, true},
		{BookingDepositPaid, BookingConfirmed, false},
		{BookingDatesSelected, BookingDatesSelected, true},
		{BookingDatesSelected, BookingConfirmed, true},
		{BookingDatesSelected, BookingRejected, true},
		{BookingDatesSelected, BookingCancelled, true},
		{BookingConfirmed, BookingCancelled, false},
		{BookingRejected, BookingDatesSelected, false},
		{BookingCancelled, BookingDepositPaid, false},
		{"BOGUS", BookingCancelled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatus(t *testing.T) {
	for _, s := range []string{BookingConfirmed, BookingRejected, BookingCancelled} {
		if !TerminalStatus(s) {
			t.Errorf("TerminalStatus(%s) = false, want true", s)
		}
	}
	for _, s := range []string{BookingPendingDeposit, BookingDepositPaid, BookingDatesSelected, "BOGUS"} {
		if TerminalStatus(s) {
			t.Errorf("TerminalStatus(%s) = true, want false", s)
		}
	}
}

func TestWindowFor(t *testing.T) {
	paidAt := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	start, end := WindowFor(paidAt)
	if !start.Equal(paidAt) {
		t.Errorf("window start = %v, want %v", start, paidAt)
	}
	if want := paidAt.AddDate(0, 0, BookingWindowDays); !end.Equal(want) {
		t.Errorf("window end = %v, want %v", end, want)
	}
}

func TestInWindow(t *testing.T) {
	winStart := time.Date(2026, 1, 15, 9, 45, 0, 0, time.UTC)
	winEnd := winStart.AddDate(0, 0, BookingWindowDays)
	b := Booking{WindowStartsAt: &winStart, WindowEndsAt: &winEnd}

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		// The deposit landed mid-day on Jan 15; a stay starting that
		// same calendar day is still inside the window.
		{"same day as deposit", day(2026, 1, 15), day(2026, 1, 18), true},
		{"mid window", day(2026, 6, 1), day(2026, 6, 8), true},
		{"before window", day(2026, 1, 10), day(2026, 1, 12), false},
		{"past window end", day(2027, 1, 14), day(2027, 1, 20), false},
	}
	for _, tc := range cases {
		if got := b.InWindow(tc.start, tc.end); got != tc.want {
			t.Errorf("%s: InWindow = %v, want %v", tc.name, got, tc.want)
		}
	}

	var unpaid Booking
	if unpaid.InWindow(day(2026, 6, 1), day(2026, 6, 8)) {
		t.Error("booking without a window should never be in window")
	}
}

func TestNightsAndStayDates(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)

	if n := Nights(start, end); n != 3 {
		t.Fatalf("Nights = %d, want 3", n)
	}

	dates := StayDates(start, end)
	if len(dates) != 3 {
		t.Fatalf("StayDates returned %d dates, want 3", len(dates))
	}
	for i, d := range dates {
		if want := start.AddDate(0, 0, i); !d.Equal(want) {
			t.Errorf("dates[%d] = %v, want %v", i, d, want)
		}
	}

	if got := StayDates(end, start); got != nil {
		t.Errorf("inverted range should yield nil, got %v", got)
	}
	if got := StayDates(start, start); got != nil {
		t.Errorf("zero-night stay should yield nil, got %v", got)
	}
}
