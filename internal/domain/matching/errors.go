package matching

import "errors"

var (
	// ErrInvalidInput marks a caller contract violation such as a
	// coordinate outside valid latitude/longitude ranges.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch marks embedding vectors of unequal length,
	// an upstream data contract violation between candidate and job.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
