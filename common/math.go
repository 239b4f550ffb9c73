package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func AbsInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// QuadBezier evaluates a quadratic Bezier curve at t in [0,1].
func QuadBezier(p0, p1, p2 cp.Vector, t float64) cp.Vector {
	t = Clamp(t, 0, 1)
	u := 1 - t
	return cp.Vector{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

// NearlyEqual compares with an absolute tolerance.
func NearlyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
