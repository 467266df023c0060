package cpa

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat"
	"github.com/gonum/stat/distmv"
)

// Sensor observes targets with Gaussian noise on position, speed and heading.
// A nil noise source means that quantity is observed exactly.
// A Sensor shares one random source between its distributions and is not safe for concurrent use.
type Sensor struct {
	PositionNoise *distmv.Normal // 2D, in distance units
	SpeedNoise    *distmv.Normal // 1D, in speed units
	HeadingNoise  *distmv.Normal // 1D, in degrees
}

// NewSensor returns a new sensor from the 1-σ noise of each observed quantity.
func NewSensor(σPosition, σSpeed, σHeading float64, seed int64) (Sensor, error) {
	if !isFinite(σPosition, σSpeed, σHeading) {
		return Sensor{}, fmt.Errorf("%w: sensor noise must be finite", ErrInvalidArgumentType)
	}
	if σPosition < 0 || σSpeed < 0 || σHeading < 0 {
		return Sensor{}, fmt.Errorf("%w: sensor noise standard deviations must be non-negative", ErrInvalidKinematics)
	}
	src := rand.New(rand.NewSource(seed))
	var s Sensor
	var ok bool
	if σPosition > 0 {
		σ2 := σPosition * σPosition
		if s.PositionNoise, ok = distmv.NewNormal([]float64{0, 0}, mat64.NewSymDense(2, []float64{σ2, 0, 0, σ2}), src); !ok {
			return Sensor{}, fmt.Errorf("%w: position noise covariance is not positive definite", ErrInvalidArgumentType)
		}
	}
	if σSpeed > 0 {
		if s.SpeedNoise, ok = distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{σSpeed * σSpeed}), src); !ok {
			return Sensor{}, fmt.Errorf("%w: speed noise covariance is not positive definite", ErrInvalidArgumentType)
		}
	}
	if σHeading > 0 {
		if s.HeadingNoise, ok = distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{σHeading * σHeading}), src); !ok {
			return Sensor{}, fmt.Errorf("%w: heading noise covariance is not positive definite", ErrInvalidArgumentType)
		}
	}
	return s, nil
}

// Observe returns the target as seen by this sensor. A negative noisy speed is folded back
// to positive, and the noisy heading is normalized.
func (s Sensor) Observe(target Vessel) (Vessel, error) {
	x, y := target.r[0], target.r[1]
	speed, heading := target.speed, target.heading
	if s.PositionNoise != nil {
		δ := s.PositionNoise.Rand(nil)
		x += δ[0]
		y += δ[1]
	}
	if s.SpeedNoise != nil {
		speed = math.Abs(speed + s.SpeedNoise.Rand(nil)[0])
	}
	if s.HeadingNoise != nil {
		heading += s.HeadingNoise.Rand(nil)[0]
	}
	return NewVessel(target.length, x, y, speed, heading)
}

// Dispersion summarizes the CPA computed from many noisy observations of the same target.
type Dispersion struct {
	Samples             int
	MeanRange, StdRange float64
	MeanTCPA, StdTCPA   float64
}

func (d Dispersion) String() string {
	return fmt.Sprintf("range=%.3f±%.3f tcpa=%.3f±%.3f (%d samples)", d.MeanRange, d.StdRange, d.MeanTCPA, d.StdTCPA, d.Samples)
}

// NewDispersion computes the CPA between own ship and samples observations of the target.
func NewDispersion(own, target Vessel, s Sensor, samples int) (Dispersion, error) {
	if samples < 2 {
		return Dispersion{}, fmt.Errorf("%w: need at least two samples, got %d", ErrInvalidArgumentType, samples)
	}
	ranges := make([]float64, samples)
	tcpas := make([]float64, samples)
	for i := 0; i < samples; i++ {
		observed, err := s.Observe(target)
		if err != nil {
			return Dispersion{}, err
		}
		rslt := CPA(own, observed)
		ranges[i] = rslt.Range
		tcpas[i] = rslt.TCPA
	}
	d := Dispersion{Samples: samples}
	d.MeanRange, d.StdRange = stat.MeanStdDev(ranges, nil)
	d.MeanTCPA, d.StdTCPA = stat.MeanStdDev(tcpas, nil)
	return d, nil
}
