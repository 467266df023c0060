package cpa

import "errors"

var (
	// ErrInvalidKinematics is returned for negative lengths, speeds or sensor noise.
	ErrInvalidKinematics = errors.New("invalid kinematics")
	// ErrInvalidArgumentType is returned for malformed numeric input: NaN, infinities,
	// or values which cannot be read as numbers.
	ErrInvalidArgumentType = errors.New("invalid argument type")
	// ErrCoincident is returned when a direction between two vessels is required but
	// they share the same position.
	ErrCoincident = errors.New("vessels are coincident")
)
