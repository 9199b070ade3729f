package extract

import (
	"errors"
	"fmt"

	"github.com/Knetic/govaluate"
)

// ErrBadGrid indicates a strike grid spec that cannot be resolved.
var ErrBadGrid = errors.New("invalid strike grid")

// GridSpec describes the strike grid to evaluate the distribution on.
//
// Either an explicit strike list is given, or Lower/Upper expressions plus a
// point count. Expressions may reference SPOT, KREF and FWD, e.g.
// "0.5 * SPOT" or "KREF + 20".
type GridSpec struct {
	Strikes []float64 `json:"strikes,omitempty"`
	Lower   string    `json:"lower,omitempty"`
	Upper   string    `json:"upper,omitempty"`
	Points  int       `json:"points,omitempty"`
}

// Resolve materializes the grid for one expiry. Explicit strikes win over
// bound expressions.
func (gridSpec GridSpec) Resolve(spot, strikeRef, fwd float64) ([]float64, error) {
	if len(gridSpec.Strikes) > 0 {
		for _, k := range gridSpec.Strikes {
			if k <= 0 {
				return nil, fmt.Errorf("%w: non-positive strike %g", ErrBadGrid, k)
			}
		}
		out := make([]float64, len(gridSpec.Strikes))
		copy(out, gridSpec.Strikes)
		return out, nil
	}

	if gridSpec.Lower == "" || gridSpec.Upper == "" {
		return nil, fmt.Errorf("%w: need explicit strikes or lower/upper expressions", ErrBadGrid)
	}
	if gridSpec.Points < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrBadGrid, gridSpec.Points)
	}

	params := map[string]interface{}{
		"SPOT": spot,
		"KREF": strikeRef,
		"FWD":  fwd,
	}

	lower, err := evalBound(gridSpec.Lower, params)
	if err != nil {
		return nil, err
	}
	upper, err := evalBound(gridSpec.Upper, params)
	if err != nil {
		return nil, err
	}

	if lower <= 0 || upper <= lower {
		return nil, fmt.Errorf("%w: bounds [%g, %g] out of order or non-positive", ErrBadGrid, lower, upper)
	}

	return linspace(lower, upper, gridSpec.Points), nil
}

func evalBound(expr string, params map[string]interface{}) (float64, error) {
	eval, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return 0, fmt.Errorf("%w: parse %q: %v", ErrBadGrid, expr, err)
	}

	res, err := eval.Evaluate(params)
	if err != nil {
		return 0, fmt.Errorf("%w: evaluate %q: %v", ErrBadGrid, expr, err)
	}

	val, ok := res.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: expression %q is not numeric", ErrBadGrid, expr)
	}
	return val, nil
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
