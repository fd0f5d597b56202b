package spatial

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Constants
const (
	// KmPerDegree converts an arc in degrees to kilometers: 60 nautical miles per
	// degree, 1.1515 statute miles per nautical mile, 1.609344 km per mile.
	KmPerDegree = 60 * 1.1515 * 1.609344

	EarthCircumferenceMeters = 40075000.0
)

// LatLng builds an s2.LatLng from decimal degrees
func LatLng(lat, lon float64) s2.LatLng {
	return s2.LatLngFromDegrees(lat, lon)
}

// DistanceKm calculates the great-circle distance between two points in kilometers
// using the spherical law of cosines. The cosine is clamped to [-1, 1] so nearly
// identical points return 0 instead of NaN.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	p1 := LatLng(lat1, lon1)
	p2 := LatLng(lat2, lon2)
	theta := p1.Lng - p2.Lng

	cos := math.Sin(p1.Lat.Radians())*math.Sin(p2.Lat.Radians()) +
		math.Cos(p1.Lat.Radians())*math.Cos(p2.Lat.Radians())*math.Cos(theta.Radians())
	cos = math.Max(-1, math.Min(1, cos))

	arc := s1.Angle(math.Acos(cos)) * s1.Radian
	dist := arc.Degrees() * KmPerDegree
	if dist > 0 {
		return dist
	}
	return 0
}

// BearingDegrees calculates the initial bearing (forward azimuth) from point 1 to point 2
// Returns bearing in degrees [0, 360), where 0 is North, 90 is East, etc.
// Coincident points return 0.
func BearingDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := LatLng(lat1, lon1)
	p2 := LatLng(lat2, lon2)

	lat1Rad := p1.Lat.Radians()
	lat2Rad := p2.Lat.Radians()
	lonDiff := (p2.Lng - p1.Lng).Radians()

	y := math.Sin(lonDiff) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(lonDiff)
	if x == 0 && y == 0 {
		return 0
	}

	// Convert to degrees and normalize to 0-360
	bearingDeg := (s1.Angle(math.Atan2(y, x)) * s1.Radian).Degrees()
	return math.Mod(bearingDeg+360, 360)
}
