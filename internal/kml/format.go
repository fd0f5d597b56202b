package kml

import (
	"fmt"
	"image/color"
	"time"

	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/models"
	gokml "github.com/twpayne/go-kml/v3"
)

const localTimeLayout = "02.01.2006 15:04:05"

// Color converts an RGB color and an opacity percentage to a KML color
func Color(c config.RGB, opacity int) color.RGBA {
	opacity = max(0, min(opacity, 100))
	alpha := uint8(float64(opacity) / 100 * 255)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

// LocalTime formats an instant in the display zone
func LocalTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(localTimeLayout)
}

// Clock formats a duration as hh:mm:ss
func Clock(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

func pointCoordinate(lat, lon float64) gokml.Coordinate {
	return gokml.Coordinate{Lon: lon, Lat: lat}
}

func lineCoordinates(points []models.Coordinate) []gokml.Coordinate {
	coords := make([]gokml.Coordinate, len(points))
	for i, p := range points {
		coords[i] = pointCoordinate(p.Latitude, p.Longitude)
	}
	return coords
}
