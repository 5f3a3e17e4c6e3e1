package matching

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two points in
// kilometers (WGS-84 spherical approximation). Identical points return
// exactly 0. Out-of-range coordinates are a caller contract violation.
func Haversine(a, b Point) (float64, error) {
	if !validPoint(a) || !validPoint(b) {
		return 0, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if a == b {
		return 0, nil
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c, nil
}

func validPoint(p Point) bool {
	return math.Abs(p.Lat) <= 90 && math.Abs(p.Lng) <= 180
}

// commuteRadiusKm converts a candidate's maximum acceptable commute
// into a distance radius using the assumed speed for their mode.
func commuteRadiusKm(mode CommuteMode, maxMinutes int, cfg Config) float64 {
	if maxMinutes <= 0 {
		return 0
	}
	speed, ok := cfg.CommuteSpeedsKmh[mode]
	if !ok || speed <= 0 {
		speed = cfg.CommuteSpeedsKmh[CommutePublicTransit]
	}
	return speed * float64(maxMinutes) / 60.0
}
