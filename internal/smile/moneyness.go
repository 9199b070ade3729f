// Package smile models a parametric implied-volatility smile and extracts
// the risk-neutral strike distribution it implies.
package smile

import "math"

// Moneyness normalizes a strike against a reference strike. Implementations
// are immutable value types closing over fixed parameters; M must be pure
// and must satisfy M(kRef, kRef) = 0.
type Moneyness interface {
	M(k, kRef float64) float64
}

// QuadMoneyness is proportional moneyness against the reference forward:
// m = (K − KRef/PV) / (KRef/PV). Linear in K and unbounded.
type QuadMoneyness struct {
	PV float64 // discount factor used to lift KRef to the forward
}

func NewQuadMoneyness(pv float64) QuadMoneyness {
	return QuadMoneyness{PV: pv}
}

func (q QuadMoneyness) M(k, kRef float64) float64 {
	fwdRef := kRef / q.PV
	return (k - fwdRef) / fwdRef
}

// TanhMoneyness is proportional moneyness squashed through a scaled tanh:
// m = w·tanh(pm/w). Bounded in (−w, w) for all finite strikes, saturating
// for extreme wings, and tangent to QuadMoneyness as pm → 0.
type TanhMoneyness struct {
	W  float64 // cutoff velocity, w > 0
	PV float64
}

func NewTanhMoneyness(w, pv float64) TanhMoneyness {
	return TanhMoneyness{W: w, PV: pv}
}

func (t TanhMoneyness) M(k, kRef float64) float64 {
	fwdRef := kRef / t.PV
	pm := (k - fwdRef) / fwdRef
	return t.W * math.Tanh(pm/t.W)
}
