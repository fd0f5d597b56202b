package track

import (
	"time"

	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/spatial"
)

var baseTime = time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

const (
	baseLat = 58.6
	baseLon = 24.5
)

func fixAt(lat, lon float64, offset time.Duration, speed float64) models.Fix {
	return models.Fix{
		Latitude:  lat,
		Longitude: lon,
		Timestamp: baseTime.Add(offset),
		SpeedKmh:  speed,
		DayKey:    "2024-05-02",
	}
}

// northOf returns the latitude km kilometers north of lat along a meridian
func northOf(lat, km float64) float64 {
	return lat + km/spatial.KmPerDegree
}

// straightLine builds n fixes heading north, stepKm apart and one minute apart
func straightLine(n int, stepKm float64) []models.Fix {
	fixes := make([]models.Fix, n)
	lat := baseLat
	for i := range n {
		fixes[i] = fixAt(lat, baseLon, time.Duration(i)*time.Minute, 50)
		lat = northOf(lat, stepKm)
	}
	return fixes
}

func coordinates(fixes []models.Fix) []models.Coordinate {
	coords := make([]models.Coordinate, len(fixes))
	for i, f := range fixes {
		coords[i] = f.Coordinate()
	}
	return coords
}
