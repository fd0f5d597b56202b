package spatial

import "github.com/golang/geo/r1"

// Bounds is the axis-aligned latitude/longitude envelope of a point set in degrees.
// Longitudes are treated as plain numbers; the envelope does not wrap the antimeridian.
type Bounds struct {
	Lat r1.Interval
	Lng r1.Interval
}

// EmptyBounds returns an envelope containing no points
func EmptyBounds() Bounds {
	return Bounds{Lat: r1.EmptyInterval(), Lng: r1.EmptyInterval()}
}

// Add extends the envelope to include the point
func (b Bounds) Add(lat, lon float64) Bounds {
	return Bounds{Lat: b.Lat.AddPoint(lat), Lng: b.Lng.AddPoint(lon)}
}

// IsEmpty reports whether no point was added
func (b Bounds) IsEmpty() bool {
	return b.Lat.IsEmpty()
}

// MaxSpan returns the larger of the latitude and longitude spans in degrees
func (b Bounds) MaxSpan() float64 {
	if b.IsEmpty() {
		return 0
	}
	return max(b.Lat.Length(), b.Lng.Length())
}
