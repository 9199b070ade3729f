package smile

import (
	"math"
	"testing"

	"github.com/contactkeval/option-smile/internal/mathx"
	"github.com/contactkeval/option-smile/internal/testutil"
)

// lognormalRefs returns the closed-form CDF and density of the terminal
// price under a flat smile at level vol.
func lognormalRefs(k, fwd, vol, texp float64) (cdf, dens float64) {
	sqrtvar := vol * math.Sqrt(texp)
	d2 := (math.Log(fwd/k) - 0.5*sqrtvar*sqrtvar) / sqrtvar
	cdf = mathx.NormCDF(-d2)
	dens = mathx.NormPDF(d2) / (k * sqrtvar)
	return cdf, dens
}

func TestImpliedDistributionFlatSmile(t *testing.T) {
	const (
		spot = 100.0
		vol  = 0.2
		texp = 1.0
		pv   = 1.0
	)
	curve := NewCurve(spot, vol, 0, 0, NewQuadMoneyness(pv))

	strikes := []float64{70, 85, 100, 115, 130}
	got := ImpliedDistribution(strikes, texp, spot, pv, curve)

	if len(got.Vols) != len(strikes) || len(got.Prices) != len(strikes) ||
		len(got.Dist) != len(strikes) || len(got.Dens) != len(strikes) {
		t.Fatalf("output slices not aligned with strikes")
	}

	for i, k := range strikes {
		wantCDF, wantDens := lognormalRefs(k, spot/pv, vol, texp)
		testutil.AssertCloseRel(t, "cdf", got.Dist[i], wantCDF, 1e-2)
		testutil.AssertCloseRel(t, "density", got.Dens[i], wantDens, 1e-2)
		testutil.AssertClose(t, "vol", got.Vols[i], vol, 1e-12)
	}
}

func TestImpliedDistributionMonotoneCDF(t *testing.T) {
	curve := NewCurve(100, 0.25, -0.05, 0.2, NewTanhMoneyness(0.5, 0.99))

	strikes := make([]float64, 0, 61)
	for k := 40.0; k <= 160.0; k += 2 {
		strikes = append(strikes, k)
	}
	got := ImpliedDistribution(strikes, 0.5, 100, 0.99, curve)

	for i := range got.Dist {
		if got.Dist[i] <= 0 || got.Dist[i] >= 1 {
			t.Errorf("strike %v: cdf %v outside (0, 1)", strikes[i], got.Dist[i])
		}
		if i > 0 && got.Dist[i] <= got.Dist[i-1] {
			t.Errorf("strike %v: cdf %v not above %v", strikes[i], got.Dist[i], got.Dist[i-1])
		}
		if got.Dens[i] < 0 {
			t.Errorf("strike %v: negative density %v", strikes[i], got.Dens[i])
		}
	}
}

func TestImpliedDistributionPutPricesIncrease(t *testing.T) {
	curve := NewCurve(100, 0.2, 0, 0.4, NewQuadMoneyness(1.0))

	strikes := []float64{60, 80, 100, 120, 140}
	got := ImpliedDistribution(strikes, 1.0, 100, 1.0, curve)

	// undiscounted put prices are increasing in strike
	for i := 1; i < len(got.Prices); i++ {
		if got.Prices[i] <= got.Prices[i-1] {
			t.Errorf("put price %v at strike %v not above %v", got.Prices[i], strikes[i], got.Prices[i-1])
		}
	}
}
