package smile

// Curve is an implied-volatility smile quadratic in generalized moneyness:
//
//	vol(K) = a + b·m + 0.5·c·m²  with  m = fn.M(K, kRef)
//
// a is the at-the-money level, b the slope and c the convexity around the
// reference strike. A Curve is immutable after construction and safe for
// concurrent use.
type Curve struct {
	kRef float64
	a    float64
	b    float64
	c    float64
	fn   Moneyness
}

// NewCurve constructs a smile from its parameters and a moneyness
// transform. The transform is held by reference, not re-derived per call.
func NewCurve(kRef, a, b, c float64, fn Moneyness) *Curve {
	return &Curve{kRef: kRef, a: a, b: b, c: c, fn: fn}
}

// StrikeRef returns the reference strike the smile is anchored on.
func (s *Curve) StrikeRef() float64 { return s.kRef }

// ImpliedVol returns the smile volatility at strike k.
//
// The expiry argument is accepted but ignored: in this model volatility is
// a pure function of moneyness with no term structure. That is a modeling
// simplification to be preserved, not extended.
func (s *Curve) ImpliedVol(k, texp float64) float64 {
	m := s.fn.M(k, s.kRef)
	return s.a + s.b*m + 0.5*s.c*m*m
}
