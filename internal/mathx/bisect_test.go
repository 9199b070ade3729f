package mathx

import (
	"errors"
	"math"
	"testing"
)

func TestBisectFindsRoot(t *testing.T) {
	cases := []struct {
		name   string
		f      func(float64) float64
		lo, hi float64
		want   float64
	}{
		{"linear", func(x float64) float64 { return x - 3 }, 0, 10, 3},
		{"sqrt2", func(x float64) float64 { return x*x - 2 }, 0, 2, math.Sqrt2},
		{"cosine", math.Cos, 0, 3, math.Pi / 2},
		{"reversed bounds", func(x float64) float64 { return x - 3 }, 10, 0, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Bisect(tc.f, tc.lo, tc.hi, 1e-10)
			if err != nil {
				t.Fatalf("Bisect returned error: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("root = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBisectExactZeroAtEndpoint(t *testing.T) {
	got, err := Bisect(func(x float64) float64 { return x }, 0, 1, 1e-12)
	if err != nil {
		t.Fatalf("Bisect returned error: %v", err)
	}
	if got != 0 {
		t.Errorf("root = %v, want 0", got)
	}
}

func TestBisectNoBracket(t *testing.T) {
	_, err := Bisect(func(x float64) float64 { return x*x + 1 }, -5, 5, 1e-10)
	if !errors.Is(err, ErrNoBracket) {
		t.Errorf("err = %v, want ErrNoBracket", err)
	}
}

func TestBisectNaNObjective(t *testing.T) {
	_, err := Bisect(func(x float64) float64 { return math.NaN() }, 0, 1, 1e-10)
	if err == nil {
		t.Error("expected error for NaN objective")
	}
}
