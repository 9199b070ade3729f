package pricing

import (
	"math"

	"github.com/contactkeval/option-smile/internal/mathx"
)

// Default volatility search bracket for OptionVol. The Black-Scholes price
// is monotone in volatility for calls and puts, so any price strictly
// inside the no-arbitrage interval has exactly one root in here.
const (
	DefaultMinVol = 0.0
	DefaultMaxVol = 20.0

	volSolveTol = 1e-12
)

// OptionVol implies the Black-Scholes volatility that reproduces price
// under the forward-measure formula.
//
// Parameters:
//   - price: observed option price
//   - fwd: forward price
//   - pv: discount factor
//   - strike: strike
//   - texp: time to expiry in years
//   - pt: payoff type (CALL or PUT give a monotone, bracketable target)
//   - minVol, maxVol: volatility search bracket
//
// Returns:
//
//	The implied volatility, or NaN when no solution exists: price outside
//	the no-arbitrage interval, no sign change over the bracket, or a
//	failed solve. The sentinel lets batch callers filter bad quotes
//	instead of aborting, so failures here never surface as errors,
//	not even an unparseable payoff type.
func OptionVol(price, fwd, pv, strike, texp float64, pt Payoff, minVol, maxVol float64) float64 {
	target := func(v float64) float64 {
		p, err := OptionPrice(fwd, v, pv, strike, texp, pt)
		if err != nil {
			return math.NaN()
		}
		return p - price
	}

	vol, err := mathx.Bisect(target, minVol, maxVol, volSolveTol)
	if err != nil {
		return math.NaN()
	}
	return vol
}
