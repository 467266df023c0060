package cpa

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 1 / deg2rad
)

// norm returns the norm of a given planar vector.
func norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// dot performs the inner product via mat64/BLAS.
func dot(a, b []float64) float64 {
	return mat64.Dot(mat64.NewVector(len(a), a), mat64.NewVector(len(b), b))
}

// sub returns a - b without modifying either.
func sub(a, b [2]float64) [2]float64 {
	return [2]float64{a[0] - b[0], a[1] - b[1]}
}

// advance returns p + v*t.
func advance(p, v [2]float64, t float64) [2]float64 {
	return [2]float64{p[0] + v[0]*t, p[1] + v[1]*t}
}

// NormalizeDeg wraps an angle in degrees into [0, 360).
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 || a == 0 {
		// Catches -0 and the rounding of tiny negatives up to 360.
		return 0
	}
	return a
}

// Deg2rad converts degrees to radians, and enforces only positive numbers.
func Deg2rad(a float64) float64 {
	return NormalizeDeg(a) * deg2rad
}

// Rad2deg converts radians to degrees, and enforces only positive numbers.
func Rad2deg(a float64) float64 {
	return NormalizeDeg(a * rad2deg)
}

// isFinite returns whether none of the provided values are NaN or infinite.
func isFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
