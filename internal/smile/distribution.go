package smile

import (
	"github.com/contactkeval/option-smile/internal/pricing"
)

// VolSource is the smile query surface the extractor needs. *Curve
// satisfies it; any other smile parameterization can be plugged in.
type VolSource interface {
	StrikeRef() float64
	ImpliedVol(k, texp float64) float64
}

// Distribution holds the extraction output for one expiry: four sequences
// aligned element-wise to the input strike grid.
type Distribution struct {
	Vols   []float64 // smile implied vol at each strike
	Prices []float64 // undiscounted put price at each strike
	Dist   []float64 // dPut/dK, the implied CDF at each strike
	Dens   []float64 // d²Put/dK², the implied density at each strike
}

// ImpliedDistribution extracts the risk-neutral strike distribution and
// density implied by a volatility smile at one expiry.
//
// For each strike K the smile is sampled at K·(1±eps) with the
// strike-proportional bump eps = 1e-4·StrikeRef, each sample is priced as
// a put, and central differences give the first and second strike
// derivatives of the put price, i.e. the implied CDF and density
// (Breeden-Litzenberger).
//
// pv enters only through the forward fwd = spot/pv; the bumped puts are
// priced with a unit discount factor. That isolates the shape of the
// distribution from discounting and mirrors the model this extractor was
// built against.
//
// The bump size trades truncation error (too large) against cancellation
// error (too small); 1e-4 of the reference strike sits comfortably between
// the two for double precision. Density is non-negative for any
// arbitrage-free smile, but that is a property of the inputs: the
// extractor reports what the differences produce.
func ImpliedDistribution(strikes []float64, texp, spot, pv float64, iv VolSource) Distribution {
	eps := 1e-4 * iv.StrikeRef()
	fwd := spot / pv

	d := Distribution{
		Vols:   make([]float64, len(strikes)),
		Prices: make([]float64, len(strikes)),
		Dist:   make([]float64, len(strikes)),
		Dens:   make([]float64, len(strikes)),
	}

	for i, k := range strikes {
		kUp := k * (1.0 + eps)
		kDn := k * (1.0 - eps)

		vUp := putPrice(fwd, iv.ImpliedVol(kUp, texp), kUp, texp)
		v := putPrice(fwd, iv.ImpliedVol(k, texp), k, texp)
		vDn := putPrice(fwd, iv.ImpliedVol(kDn, texp), kDn, texp)

		d.Vols[i] = iv.ImpliedVol(k, texp)
		d.Prices[i] = v
		d.Dist[i] = (vUp - vDn) / (kUp - kDn)
		d.Dens[i] = (vUp - 2.0*v + vDn) / ((kUp - k) * (k - kDn))
	}

	return d
}

// putPrice prices with the extractor's fixed conventions: PUT payoff, unit
// discount factor. The payoff constant is valid, so OptionPrice can not
// fail here.
func putPrice(fwd, vol, strike, texp float64) float64 {
	p, _ := pricing.OptionPrice(fwd, vol, 1.0, strike, texp, pricing.Put)
	return p
}
