package model

import "testing"

func TestCommissionCents(t *testing.T) {
	cases := []struct {
		name      string
		price     uint32
		bps       uint32
		partySize uint32
		want      uint32
	}{
		{"five percent single traveler", 100000, 500, 1, 5000},
		{"five percent party of four", 100000, 500, 4, 20000},
		{"rounds down", 999, 333, 1, 33}, // 999 * 0.0333 = 33.26
		{"zero rate", 100000, 0, 2, 0},
		{"full rate", 2500, 10000, 1, 2500},
	}
	for _, tc := range cases {
		d := Destination{TotalPriceCents: tc.price, CommissionBps: tc.bps}
		if got := d.CommissionCents(tc.partySize); got != tc.want {
			t.Errorf("%s: CommissionCents = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestCommissionCentsNoOverflow(t *testing.T) {
	// A worst-case expensive trip with a large party must not wrap
	// during the intermediate multiplication.
	d := Destination{TotalPriceCents: 4000000000, CommissionBps: 10000}
	if got := d.CommissionCents(1); got != 4000000000 {
		t.Fatalf("CommissionCents = %d, want 4000000000", got)
	}
}
