package pricing

import (
	"math"
	"testing"

	"github.com/contactkeval/option-smile/internal/testutil"
)

func TestOptionVolRoundTrip(t *testing.T) {
	cases := []struct {
		fwd, vol, pv, strike, texp float64
		pt                         Payoff
	}{
		{100, 0.2, 1.0, 100, 1.0, Call},
		{100, 0.2, 1.0, 100, 1.0, Put},
		{100, 0.2, 1.0, 100, 1.0, Straddle},
		{100, 0.55, 0.97, 140, 0.25, Call},
		{250, 0.08, 0.99, 240, 2.0, Put},
		{100, 1.5, 1.0, 60, 0.05, Straddle},
	}

	for _, tc := range cases {
		price, err := OptionPrice(tc.fwd, tc.vol, tc.pv, tc.strike, tc.texp, tc.pt)
		if err != nil {
			t.Fatalf("OptionPrice: %v", err)
		}

		got := OptionVol(price, tc.fwd, tc.pv, tc.strike, tc.texp, tc.pt, DefaultMinVol, DefaultMaxVol)
		testutil.AssertClose(t, "round-trip vol", got, tc.vol, 1e-6)
	}
}

func TestOptionVolUnattainablePrice(t *testing.T) {
	// a call can never be worth more than the discounted forward
	got := OptionVol(200, 100, 1.0, 100, 1.0, Call, DefaultMinVol, DefaultMaxVol)
	if !math.IsNaN(got) {
		t.Errorf("vol = %v, want NaN for unattainable price", got)
	}

	// below intrinsic is just as unattainable
	got = OptionVol(1, 100, 1.0, 150, 1.0, Put, DefaultMinVol, DefaultMaxVol)
	if !math.IsNaN(got) {
		t.Errorf("vol = %v, want NaN for sub-intrinsic price", got)
	}
}

func TestOptionVolBadPayoffReturnsNaN(t *testing.T) {
	// solver failures surface as NaN, never as a panic or error
	got := OptionVol(5, 100, 1.0, 100, 1.0, "CONDOR", DefaultMinVol, DefaultMaxVol)
	if !math.IsNaN(got) {
		t.Errorf("vol = %v, want NaN for unknown payoff", got)
	}

	got = OptionVol(5, 100, 1.0, 100, 1.0, Forward, DefaultMinVol, DefaultMaxVol)
	if !math.IsNaN(got) {
		t.Errorf("vol = %v, want NaN for forward payoff", got)
	}
}

func TestOptionVolCustomInterval(t *testing.T) {
	price, err := OptionPrice(100, 0.3, 1.0, 100, 1.0, Call)
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}

	// true vol sits outside the supplied bracket
	got := OptionVol(price, 100, 1.0, 100, 1.0, Call, 0.5, 1.0)
	if !math.IsNaN(got) {
		t.Errorf("vol = %v, want NaN when bracket excludes the root", got)
	}

	got = OptionVol(price, 100, 1.0, 100, 1.0, Call, 0.1, 0.5)
	testutil.AssertClose(t, "bracketed vol", got, 0.3, 1e-6)
}
