package matching

import (
	"fmt"
	"math"
)

// CosineSimilarity returns the cosine of the angle between two equal
// length vectors, in [-1,1]. A zero-magnitude vector yields 0.0: a
// missing embedding degrades to "no signal" instead of failing the
// whole pipeline.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return sim, nil
}
