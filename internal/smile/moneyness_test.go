package smile

import (
	"math"
	"testing"

	"github.com/contactkeval/option-smile/internal/testutil"
)

func TestQuadMoneynessAtReference(t *testing.T) {
	for _, pv := range []float64{1.0, 0.97, 0.85} {
		fn := NewQuadMoneyness(pv)
		if got := fn.M(100/pv, 100); got != 0 {
			t.Errorf("pv=%v: m at forward reference = %v, want 0", pv, got)
		}
	}
}

func TestQuadMoneynessLinearInStrike(t *testing.T) {
	fn := NewQuadMoneyness(1.0)
	// m = (K - KRef) / KRef at pv=1
	testutil.AssertClose(t, "m(110,100)", fn.M(110, 100), 0.10, 1e-12)
	testutil.AssertClose(t, "m(90,100)", fn.M(90, 100), -0.10, 1e-12)
	testutil.AssertClose(t, "m(200,100)", fn.M(200, 100), 1.0, 1e-12)
}

func TestTanhMoneynessBounded(t *testing.T) {
	const w = 0.5
	fn := NewTanhMoneyness(w, 1.0)

	for _, k := range []float64{1, 10, 50, 100, 500, 10000} {
		m := fn.M(k, 100)
		if math.Abs(m) >= w {
			t.Errorf("k=%v: |m| = %v, want below width %v", k, math.Abs(m), w)
		}
	}

	if got := fn.M(100, 100); got != 0 {
		t.Errorf("m at reference = %v, want 0", got)
	}
}

func TestTanhMoneynessMatchesQuadNearReference(t *testing.T) {
	quad := NewQuadMoneyness(1.0)
	tanh := NewTanhMoneyness(0.5, 1.0)

	// tanh saturates far out but is linear to first order at the reference
	for _, k := range []float64{99, 99.9, 100.1, 101} {
		q := quad.M(k, 100)
		th := tanh.M(k, 100)
		testutil.AssertClose(t, "tanh vs quad near ATM", th, q, 1e-5)
	}
}
