package smile

import (
	"testing"

	"github.com/contactkeval/option-smile/internal/testutil"
)

func TestCurveVolAtReference(t *testing.T) {
	curve := NewCurve(100, 0.2, -0.1, 0.5, NewQuadMoneyness(1.0))

	if got := curve.ImpliedVol(100, 1.0); got != 0.2 {
		t.Errorf("vol at reference = %v, want exactly the level 0.2", got)
	}
	if got := curve.StrikeRef(); got != 100 {
		t.Errorf("StrikeRef = %v, want 100", got)
	}
}

func TestCurveQuadraticForm(t *testing.T) {
	const (
		a = 0.2
		b = -0.1
		c = 0.5
	)
	curve := NewCurve(100, a, b, c, NewQuadMoneyness(1.0))

	for _, k := range []float64{80, 90, 100, 110, 130} {
		m := (k - 100) / 100
		want := a + b*m + 0.5*c*m*m
		testutil.AssertClose(t, "curve vol", curve.ImpliedVol(k, 1.0), want, 1e-12)
	}
}

func TestCurveIgnoresExpiry(t *testing.T) {
	curve := NewCurve(100, 0.25, 0.05, 0.3, NewTanhMoneyness(0.5, 1.0))

	ref := curve.ImpliedVol(117, 1.0)
	for _, texp := range []float64{0.01, 0.5, 2.0, 10.0} {
		if got := curve.ImpliedVol(117, texp); got != ref {
			t.Errorf("texp=%v: vol = %v, want %v independent of expiry", texp, got, ref)
		}
	}
}

func TestCurveTanhFlattensWings(t *testing.T) {
	const w = 0.25
	curve := NewCurve(100, 0.2, 0.4, 0.0, NewTanhMoneyness(w, 1.0))

	// slope capped: vol stays inside a +/- b*w band around the level
	for _, k := range []float64{1, 10, 1000, 100000} {
		vol := curve.ImpliedVol(k, 1.0)
		if vol <= 0.2-0.4*w || vol >= 0.2+0.4*w {
			t.Errorf("k=%v: vol = %v escapes the saturation band", k, vol)
		}
	}
}
