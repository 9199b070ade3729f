// Package mathx holds the numerical primitives the pricing core consumes:
// the standard normal kernel and a bracketed scalar root finder.
//
// Both are deliberately thin. Pricing code treats them as accurate library
// primitives and never re-derives them inline.
package mathx

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// stdNormal is the shared standard normal distribution. distuv.Normal is a
// value type with no mutable state when Src is nil, so one instance serves
// all callers.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// NormCDF returns Φ(x), the standard normal cumulative distribution at x.
// Accurate to double precision across the tails option pricing reaches
// (|x| up to ~10).
func NormCDF(x float64) float64 {
	return stdNormal.CDF(x)
}

// NormPDF returns φ(x), the standard normal density at x.
func NormPDF(x float64) float64 {
	return stdNormal.Prob(x)
}
