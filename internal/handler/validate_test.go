package handler

import "testing"

func TestDestinationReqValidate(t *testing.T) {
	valid := destinationReq{
		Name:            "Lisbon Coast",
		Slug:            "lisbon-coast",
		DepositCents:    25000,
		TotalPriceCents: 180000,
		CommissionBps:   500,
	}
	if msg := valid.validate(); msg != "" {
		t.Fatalf("valid request rejected: %s", msg)
	}

	cases := []struct {
		name   string
		mutate func(*destinationReq)
	}{
		{"blank name", func(r *destinationReq) { r.Name = "  " }},
		{"blank slug", func(r *destinationReq) { r.Slug = "" }},
		{"zero deposit", func(r *destinationReq) { r.DepositCents = 0 }},
		{"price below deposit", func(r *destinationReq) { r.TotalPriceCents = 100 }},
		{"rate above 100 percent", func(r *destinationReq) { r.CommissionBps = 10001 }},
	}
	for _, tc := range cases {
		r := valid
		tc.mutate(&r)
		if msg := r.validate(); msg == "" {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestActivityReqValidate(t *testing.T) {
	valid := activityReq{
		DestinationID: 3,
		Title:         "Sunset kayak tour",
		PriceCents:    4500,
	}
	if msg := valid.validate(); msg != "" {
		t.Fatalf("valid request rejected: %s", msg)
	}

	cases := []struct {
		name   string
		mutate func(*activityReq)
	}{
		{"missing destination", func(r *activityReq) { r.DestinationID = 0 }},
		{"blank title", func(r *activityReq) { r.Title = " " }},
		{"zero price", func(r *activityReq) { r.PriceCents = 0 }},
	}
	for _, tc := range cases {
		r := valid
		tc.mutate(&r)
		if msg := r.validate(); msg == "" {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
