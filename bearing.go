package cpa

import "math"

var cardinals = [...]string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE", "S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}

// BearingFromDxDy returns the compass bearing in degrees in [0, 360) of the vector (dx, dy).
// Note the swapped atan2 arguments: 0 is +y (north) and 90 is +x (east), as for headings.
func BearingFromDxDy(dx, dy float64) float64 {
	return Rad2deg(math.Atan2(dx, dy))
}

// RangeBearing returns the distance between two points and the compass bearing from the
// first to the second. Coincident points have a bearing of 0.
func RangeBearing(from, to [2]float64) (rng, bearing float64) {
	Δ := sub(to, from)
	return norm(Δ[:]), BearingFromDxDy(Δ[0], Δ[1])
}

// RangeBearingTo returns the current (t=0) range and bearing from this vessel to the other.
func (v Vessel) RangeBearingTo(other Vessel) (rng, bearing float64) {
	return RangeBearing(v.r, other.r)
}

// Cardinal returns the 16-point compass name closest to the bearing in degrees.
func Cardinal(bearing float64) string {
	idx := int(math.Round(NormalizeDeg(bearing)/22.5)) % len(cardinals)
	return cardinals[idx]
}
