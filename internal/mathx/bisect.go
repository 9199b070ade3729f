package mathx

import (
	"errors"
	"fmt"
	"math"
)

// maxBisectIter caps the bisection loop. 2^-100 of any sane starting
// interval is far below double-precision resolution, so hitting the cap
// means the tolerance was unreachable, not that more iterations would help.
const maxBisectIter = 100

var (
	ErrNoBracket     = errors.New("root not bracketed")
	ErrNoConvergence = errors.New("bisection did not converge")
)

// Bisect finds x in [lo, hi] with f(x) ≈ 0 by interval halving.
//
// f(lo) and f(hi) must have opposite signs; otherwise ErrNoBracket is
// returned. The search stops once the interval width falls below tol or an
// exact zero is hit. f is assumed continuous on [lo, hi]; monotonicity is
// not required but makes the root unique.
func Bisect(f func(float64) float64, lo, hi, tol float64) (float64, error) {
	if hi < lo {
		lo, hi = hi, lo
	}

	flo := f(lo)
	fhi := f(hi)
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if flo*fhi > 0 || math.IsNaN(flo) || math.IsNaN(fhi) {
		return 0, fmt.Errorf("%w: f(%g)=%g f(%g)=%g", ErrNoBracket, lo, flo, hi, fhi)
	}

	for i := 0; i < maxBisectIter; i++ {
		mid := 0.5 * (lo + hi)
		fmid := f(mid)

		if fmid == 0 || hi-lo < tol {
			return mid, nil
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo = mid
			flo = fmid
		}
	}

	return 0, ErrNoConvergence
}
