// Package pricing implements the closed-form Black-Scholes engine:
// European option prices, Greeks, no-arbitrage bounds, intrinsic values,
// and the implied-volatility inversion.
//
// Conventions:
//   - prices are forward-measure unless a function takes spot + rate
//   - vol and texp are silently floored at a tiny epsilon; that is a
//     numerical clamp for legitimate limiting cases, not validation
//   - payoff-type arguments are validated fail-fast and case-insensitively
package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// Payoff identifies the payoff profile of a European contract.
type Payoff string

const (
	Forward  Payoff = "FWD"
	Call     Payoff = "CALL"
	Put      Payoff = "PUT"
	Straddle Payoff = "STRADDLE"
)

// ErrInvalidPayoff reports a payoff-type argument outside the enumeration
// subset a function accepts. It is never silently defaulted.
var ErrInvalidPayoff = errors.New("unrecognized payoff type")

// normalize upper-cases pt and checks it against the accepted subset.
func (pt Payoff) normalize(accepted ...Payoff) (Payoff, error) {
	up := Payoff(strings.ToUpper(string(pt)))
	for _, a := range accepted {
		if up == a {
			return up, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPayoff, string(pt))
}
