package cpa

import (
	"fmt"

	"github.com/gonum/floats"
)

// Course is a speed and heading for the target which leads to a collision with own ship.
type Course struct {
	Speed           float64 `json:"speed"`
	Heading         float64 `json:"heading"`
	TimeToCollision float64 `json:"time_to_collision"`
}

// CollisionCourses returns n target courses which will each lead to a collision with own ship,
// one per closing speed evenly spaced over [minSpeed, maxSpeed].
//
// A collision requires the relative velocity to point from the target straight at own ship,
// i.e. Vr = -D*a where D is the target position relative to own ship. The closing speed is then
// a*|D| and the vessels meet at t = 1/a. The target velocity follows as Vt = Vo + Vr.
func CollisionCourses(own, target Vessel, n int, minSpeed, maxSpeed float64) ([]Course, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least one course, got %d", ErrInvalidArgumentType, n)
	}
	if !isFinite(minSpeed, maxSpeed) {
		return nil, fmt.Errorf("%w: speed bounds must be finite", ErrInvalidArgumentType)
	}
	if minSpeed <= 0 || maxSpeed < minSpeed {
		return nil, fmt.Errorf("%w: closing speeds must satisfy 0 < %f <= %f", ErrInvalidKinematics, minSpeed, maxSpeed)
	}
	D := sub(target.r, own.r)
	Dnorm := norm(D[:])
	if floats.EqualWithinAbs(Dnorm, 0, 1e-12) {
		return nil, ErrCoincident
	}
	closing := []float64{minSpeed}
	if n > 1 {
		closing = floats.Span(make([]float64, n), minSpeed, maxSpeed)
	}
	courses := make([]Course, n)
	for i, s := range closing {
		a := s / Dnorm
		Vt := []float64{own.v[0], own.v[1]}
		floats.AddScaled(Vt, -a, D[:])
		courses[i] = Course{Speed: norm(Vt), Heading: BearingFromDxDy(Vt[0], Vt[1]), TimeToCollision: 1 / a}
	}
	return courses, nil
}
