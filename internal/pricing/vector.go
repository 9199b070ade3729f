package pricing

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch reports element-wise inputs whose lengths can not be
// broadcast to a common shape.
var ErrShapeMismatch = errors.New("input length mismatch")

// Broadcast rule for the element-wise variants below: a length-1 slice
// stands for a scalar and broadcasts against any other length; all other
// slices must share one common length. Outputs are always materialized at
// the broadcast length: a bound derived from a scalar input never stays
// scalar when any input is a vector.

// broadcastLen returns the common element count for a set of inputs.
func broadcastLen(vs ...[]float64) (int, error) {
	n := 1
	for _, v := range vs {
		if len(v) == 0 {
			return 0, fmt.Errorf("%w: empty input", ErrShapeMismatch)
		}
		if len(v) == 1 {
			continue
		}
		if n != 1 && len(v) != n {
			return 0, fmt.Errorf("%w: %d vs %d", ErrShapeMismatch, len(v), n)
		}
		n = len(v)
	}
	return n, nil
}

// at reads element i under the broadcast rule.
func at(v []float64, i int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

// OptionPriceVec is the element-wise form of OptionPrice. Each input slice
// is either length-1 (scalar) or the common broadcast length.
func OptionPriceVec(fwd, vol, pv, strike, texp []float64, pt Payoff) ([]float64, error) {
	n, err := broadcastLen(fwd, vol, pv, strike, texp)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		p, err := OptionPrice(at(fwd, i), at(vol, i), at(pv, i), at(strike, i), at(texp, i), pt)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// OptionPriceIntervalVec is the element-wise form of OptionPriceInterval.
// Both bounds come back at the broadcast length even when one side of the
// interval is driven purely by a scalar input.
func OptionPriceIntervalVec(fwd, pv, strike []float64, pt Payoff) (lower, upper []float64, err error) {
	n, err := broadcastLen(fwd, pv, strike)
	if err != nil {
		return nil, nil, err
	}
	lower = make([]float64, n)
	upper = make([]float64, n)
	for i := 0; i < n; i++ {
		lo, up, err := OptionPriceInterval(at(fwd, i), at(pv, i), at(strike, i), pt)
		if err != nil {
			return nil, nil, err
		}
		lower[i] = lo
		upper[i] = up
	}
	return lower, upper, nil
}

// OptionIntrinsicValueVec is the element-wise form of OptionIntrinsicValue.
func OptionIntrinsicValueVec(spot, strike []float64, pt Payoff) ([]float64, error) {
	n, err := broadcastLen(spot, strike)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := OptionIntrinsicValue(at(spot, i), at(strike, i), pt)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
