package cpa

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// Vessel is the instantaneous kinematic state of a craft on a flat plane.
// It is immutable: the With* helpers return a new vessel with a regenerated velocity.
type Vessel struct {
	length  float64
	r       [2]float64 // Position (x, y)
	speed   float64
	heading float64    // Compass degrees in [0, 360): 0 is +y, 90 is +x
	v       [2]float64 // Derived from speed and heading only
}

// NewVessel returns a new vessel. The heading is in degrees (compass convention) and is
// silently normalized into [0, 360).
func NewVessel(length, x, y, speed, heading float64) (Vessel, error) {
	if !isFinite(length, x, y, speed, heading) {
		return Vessel{}, fmt.Errorf("%w: vessel parameters must be finite numbers", ErrInvalidArgumentType)
	}
	if length < 0 {
		return Vessel{}, fmt.Errorf("%w: length %f < 0", ErrInvalidKinematics, length)
	}
	if speed < 0 {
		return Vessel{}, fmt.Errorf("%w: speed %f < 0", ErrInvalidKinematics, speed)
	}
	heading = NormalizeDeg(heading)
	return Vessel{length: length, r: [2]float64{x, y}, speed: speed, heading: heading, v: velocity(speed, heading)}, nil
}

// velocity returns the velocity vector for the speed and compass heading in degrees.
func velocity(speed, heading float64) [2]float64 {
	s, c := math.Sincos(Deg2rad(heading))
	return [2]float64{speed * s, speed * c}
}

// Length returns the length of the vessel. It is descriptive only.
func (v Vessel) Length() float64 {
	return v.length
}

// R returns the position of the vessel at t=0.
func (v Vessel) R() [2]float64 {
	return v.r
}

// Speed returns the speed.
func (v Vessel) Speed() float64 {
	return v.speed
}

// Heading returns the heading in degrees in [0, 360).
func (v Vessel) Heading() float64 {
	return v.heading
}

// V returns the velocity vector (Vx, Vy).
func (v Vessel) V() [2]float64 {
	return v.v
}

// PositionAt returns the position of the vessel at time t assuming straight line motion
// at constant velocity. Negative times are valid and return past positions.
func (v Vessel) PositionAt(t float64) [2]float64 {
	return advance(v.r, v.v, t)
}

// WithSpeed returns a copy of this vessel with a new speed.
func (v Vessel) WithSpeed(speed float64) (Vessel, error) {
	return NewVessel(v.length, v.r[0], v.r[1], speed, v.heading)
}

// WithHeading returns a copy of this vessel with a new heading.
func (v Vessel) WithHeading(heading float64) (Vessel, error) {
	return NewVessel(v.length, v.r[0], v.r[1], v.speed, heading)
}

// WithPosition returns a copy of this vessel at a new position.
func (v Vessel) WithPosition(x, y float64) (Vessel, error) {
	return NewVessel(v.length, x, y, v.speed, v.heading)
}

func (v Vessel) String() string {
	return fmt.Sprintf("pos=(%.3f,%.3f) speed=%.3f heading=%.3f V=(%.3f,%.3f)", v.r[0], v.r[1], v.speed, v.heading, v.v[0], v.v[1])
}

// vesselJSON is the wire representation of a Vessel.
type vesselJSON struct {
	Length  float64 `json:"length"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Speed   float64 `json:"speed"`
	Heading float64 `json:"heading"`
}

// MarshalJSON implements json.Marshaler.
func (v Vessel) MarshalJSON() ([]byte, error) {
	return json.Marshal(vesselJSON{Length: v.length, X: v.r[0], Y: v.r[1], Speed: v.speed, Heading: v.heading})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded values go through NewVessel,
// so an invalid payload never yields a partially built vessel.
func (v *Vessel) UnmarshalJSON(data []byte) error {
	var raw vesselJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgumentType, err)
	}
	decoded, err := NewVessel(raw.Length, raw.X, raw.Y, raw.Speed, raw.Heading)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
