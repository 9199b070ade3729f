package pricing

import (
	"math"

	"github.com/contactkeval/option-smile/internal/mathx"
)

// minPositive floors vol and texp before they enter the analytic formula.
// Zero volatility or zero time are legitimate limiting cases (deterministic
// or expired contracts) whose payoff is still well-defined; flooring avoids
// log(0) and division by zero without turning them into errors.
const minPositive = 1e-10

// Risk bundles the price and Greeks produced by one evaluation of the
// Black-Scholes formula. All four fields share the same d1/d2/Φ/φ terms,
// which keeps the price internally consistent with its sensitivities.
type Risk struct {
	Price float64
	Delta float64
	Gamma float64
	Vega  float64
}

// OptionPrice calculates the forward-measure Black-Scholes price of a
// European option.
//
// Parameters:
//   - fwd: forward price of the underlying
//   - vol: volatility (annualized, decimal)
//   - pv: discount factor to expiry
//   - strike: strike
//   - texp: time to expiry in years
//   - pt: FWD, CALL, PUT or STRADDLE (case-insensitive)
//
// Returns:
//
//	The option price, or ErrInvalidPayoff if pt is outside the accepted
//	enumeration. vol and texp are floored at 1e-10 before use.
func OptionPrice(fwd, vol, pv, strike, texp float64, pt Payoff) (float64, error) {
	pt, err := pt.normalize(Forward, Call, Put, Straddle)
	if err != nil {
		return 0, err
	}

	if pt == Forward {
		// linear payoff, no vol dependence
		return pv * (fwd - strike), nil
	}

	vol = math.Max(vol, minPositive)
	texp = math.Max(texp, minPositive)

	sqrtvar := vol * math.Sqrt(texp)
	d1 := (math.Log(fwd/strike) + 0.5*sqrtvar*sqrtvar) / sqrtvar
	d2 := d1 - sqrtvar

	c := pv * (fwd*mathx.NormCDF(d1) - strike*mathx.NormCDF(d2))
	switch pt {
	case Call:
		return c, nil
	case Put:
		// put-call parity
		return c - pv*(fwd-strike), nil
	default: // Straddle
		p := c - pv*(fwd-strike)
		return c + p, nil
	}
}

// OptionRisk calculates the spot-measure Black-Scholes price and Greeks of
// a European option.
//
// Parameters:
//   - spot: spot price of the underlying
//   - vol: volatility (annualized, decimal)
//   - rate: continuously compounded risk-free rate
//   - strike: strike
//   - texp: time to expiry in years
//   - pt: CALL or PUT only (case-insensitive)
//
// Returns:
//
//	A Risk bundle. Price, Delta, Gamma and Vega come from one shared
//	evaluation of d1/d2, never from independent recomputation.
func OptionRisk(spot, vol, rate, strike, texp float64, pt Payoff) (Risk, error) {
	pt, err := pt.normalize(Call, Put)
	if err != nil {
		return Risk{}, err
	}

	vol = math.Max(vol, minPositive)
	texp = math.Max(texp, minPositive)

	pv := math.Exp(-rate * texp)
	fwd := spot / pv

	sqrtvar := vol * math.Sqrt(texp)
	d1 := (math.Log(fwd/strike) + 0.5*sqrtvar*sqrtvar) / sqrtvar
	d2 := d1 - sqrtvar
	Nd1 := mathx.NormCDF(d1)
	Nd2 := mathx.NormCDF(d2)
	nd1 := mathx.NormPDF(d1)

	c := pv * (fwd*Nd1 - strike*Nd2)

	var r Risk
	if pt == Call {
		r.Price = c
		r.Delta = Nd1
	} else {
		r.Price = c - pv*(fwd-strike)
		r.Delta = Nd1 - 1.0
	}
	r.Gamma = nd1 / (spot * sqrtvar)
	r.Vega = spot * nd1 * math.Sqrt(texp)

	return r, nil
}

// OptionPriceInterval calculates the no-arbitrage interval for a European
// option price.
//
// Parameters:
//   - fwd: forward price
//   - pv: discount factor
//   - strike: strike
//   - pt: CALL or PUT only (case-insensitive)
//
// Returns:
//
//	(lower, upper) such that lower ≤ price ≤ upper holds for any valid
//	Black-Scholes price with the same inputs.
func OptionPriceInterval(fwd, pv, strike float64, pt Payoff) (lower, upper float64, err error) {
	pt, err = pt.normalize(Call, Put)
	if err != nil {
		return 0, 0, err
	}

	pvFwd := pv * fwd
	pvStrike := pv * strike
	if pt == Call {
		return math.Max(pvFwd-pvStrike, 0.0), pvFwd, nil
	}
	return math.Max(pvStrike-pvFwd, 0.0), pvStrike, nil
}

// OptionIntrinsicValue calculates the immediate-exercise value of a
// European option.
//
// Parameters:
//   - spot: spot price
//   - strike: strike
//   - pt: CALL or PUT only (case-insensitive)
func OptionIntrinsicValue(spot, strike float64, pt Payoff) (float64, error) {
	pt, err := pt.normalize(Call, Put)
	if err != nil {
		return 0, err
	}
	if pt == Call {
		return math.Max(spot-strike, 0.0), nil
	}
	return math.Max(strike-spot, 0.0), nil
}
