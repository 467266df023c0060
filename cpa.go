package cpa

import "fmt"

// velocityε is the squared relative speed below which two vessels are considered to
// share the same velocity.
const velocityε = 1e-12

// Result is the closest point of approach between an own ship and a target.
type Result struct {
	TCPA    float64    `json:"tcpa"`                   // Time to CPA, negative if the CPA has passed
	Target  [2]float64 `json:"target_position_at_cpa"` // Target position at TCPA
	Own     [2]float64 `json:"own_position_at_cpa"`    // Own ship position at TCPA
	Range   float64    `json:"range_at_cpa"`
	Bearing float64    `json:"bearing_at_cpa"` // From own ship to target, compass degrees
}

// InPast returns whether the closest approach happened before t=0.
func (r Result) InPast() bool {
	return r.TCPA < 0
}

func (r Result) String() string {
	return fmt.Sprintf("tcpa=%.3f own=(%.3f,%.3f) target=(%.3f,%.3f) range=%.3f bearing=%.3f (%s)", r.TCPA, r.Own[0], r.Own[1], r.Target[0], r.Target[1], r.Range, r.Bearing, Cardinal(r.Bearing))
}

// CPA computes the closest point of approach between this vessel (own ship) and the target.
//
// Both tracks are parameterized as R(t) = R0 + V*t, so the squared range is the convex
// quadratic |D + Vr*t|^2 with D the relative position and Vr the relative velocity, which
// is minimized at t = -(D.Vr)/|Vr|^2. The time is not clamped: a negative TCPA means the
// vessels were closest in the past.
func (v Vessel) CPA(target Vessel) Result {
	return CPA(v, target)
}

// CPA computes the closest point of approach between own ship and target.
func CPA(own, target Vessel) Result {
	D := sub(target.r, own.r)
	Vr := sub(target.v, own.v)
	VrSq := dot(Vr[:], Vr[:])
	if VrSq < velocityε {
		// Same velocity: the range never changes, so now is as close as it gets.
		_, bearing := RangeBearing(own.r, target.r)
		return Result{TCPA: 0, Target: target.r, Own: own.r, Range: norm(D[:]), Bearing: bearing}
	}
	tcpa := -dot(D[:], Vr[:]) / VrSq
	rslt := Result{TCPA: tcpa, Target: target.PositionAt(tcpa), Own: own.PositionAt(tcpa)}
	rslt.Range, rslt.Bearing = RangeBearing(rslt.Own, rslt.Target)
	return rslt
}
