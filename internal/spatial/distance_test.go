package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	// One degree of latitude along a meridian
	assert.InDelta(t, KmPerDegree, DistanceKm(58.0, 24.0, 59.0, 24.0), 1e-6)

	// Tallinn to Tartu is roughly 160 km
	d := DistanceKm(59.4370, 24.7536, 58.3780, 26.7290)
	assert.InDelta(t, 160.0, d, 5.0)

	// Symmetric
	assert.InDelta(t, d, DistanceKm(58.3780, 26.7290, 59.4370, 24.7536), 1e-9)
}

func TestDistanceKmCoincidentPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{58.6133423333333, 24.5081206666667},
		{-33.8688, 151.2093},
		{89.9999, -179.9999},
	}
	for _, p := range points {
		d := DistanceKm(p[0], p[1], p[0], p[1])
		assert.False(t, math.IsNaN(d))
		assert.Equal(t, 0.0, d)
	}
}

func TestDistanceKmAntipodal(t *testing.T) {
	d := DistanceKm(10, 20, -10, -160)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, 180*KmPerDegree, d, 1e-2)
}

func TestDistanceKmNonNegative(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 15 {
		for lon := -180.0; lon <= 180; lon += 30 {
			d := DistanceKm(lat, lon, lat+1e-9, lon-1e-9)
			assert.GreaterOrEqual(t, d, 0.0)
			assert.False(t, math.IsNaN(d))
		}
	}
}

func TestBearingDegrees(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
	}{
		{"north", 58.0, 24.0, 59.0, 24.0, 0},
		{"east", 0, 24.0, 0, 25.0, 90},
		{"south", 59.0, 24.0, 58.0, 24.0, 180},
		{"west", 0, 25.0, 0, 24.0, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, BearingDegrees(tt.lat1, tt.lon1, tt.lat2, tt.lon2), 1e-6)
		})
	}
}

func TestBearingDegreesDomain(t *testing.T) {
	assert.Equal(t, 0.0, BearingDegrees(58.6, 24.5, 58.6, 24.5))

	for lat := -80.0; lat <= 80; lat += 20 {
		for lon := -170.0; lon <= 170; lon += 20 {
			for _, d := range [][2]float64{{0.1, 0}, {0, 0.1}, {-0.1, 0}, {0, -0.1}, {-0.1, -0.1}, {0.1, -1e-12}} {
				b := BearingDegrees(lat, lon, lat+d[0], lon+d[1])
				assert.GreaterOrEqual(t, b, 0.0)
				assert.Less(t, b, 360.0)
			}
		}
	}
}

func TestBoundsMaxSpan(t *testing.T) {
	b := EmptyBounds()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, 0.0, b.MaxSpan())

	b = b.Add(58.0, 24.0).Add(58.36, 24.1).Add(58.2, 24.05)
	assert.False(t, b.IsEmpty())
	assert.InDelta(t, 0.36, b.MaxSpan(), 1e-9)

	// Negative coordinates are handled like any other value
	b = EmptyBounds().Add(-10, -20).Add(-11, -25)
	assert.InDelta(t, 5.0, b.MaxSpan(), 1e-9)
}
