// Package geo resolves raw coordinates to registry villages.
package geo

import (
	"fmt"
	"math"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the great-circle distance between a and b in kilometres
// using the Haversine formula.
func Distance(a, b domain.Coordinate) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h a hair past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ValidateCoordinate is the check callers run before Resolve.
func ValidateCoordinate(c domain.Coordinate) error {
	if !c.Valid() {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, c.Lat, c.Lng)
	}
	return nil
}
