package geo

import (
	"math"

	"github.com/joeys1992/Date/models"
)

// Earth radius in statute miles.
const earthRadiusMiles = 3956

// DistanceMiles returns the great-circle distance between two points using
// the haversine formula.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// WithinRadius decides whether candidate falls inside the viewer's search
// radius and, when both sides have coordinates, returns the distance for
// sorting. The missing-coordinate cases are intentionally asymmetric:
//
//   - viewer has no location: candidate is included with unknown distance
//   - viewer has a location but candidate does not: candidate is excluded
//
// Callers sort unknown distances last.
func WithinRadius(viewer, candidate *models.User) (bool, *float64) {
	if !viewer.HasCoordinates() {
		return true, nil
	}
	if !candidate.HasCoordinates() {
		return false, nil
	}

	radius := viewer.SearchRadius
	if radius == 0 {
		radius = models.DefaultSearchRadius
	}

	d := DistanceMiles(*viewer.Latitude, *viewer.Longitude, *candidate.Latitude, *candidate.Longitude)
	if d > float64(radius) {
		return false, nil
	}
	return true, &d
}
