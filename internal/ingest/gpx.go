package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/jengzang/trackmap-go/internal/spatial"
)

// gpxPoint is a GPX track point; speed is the optional GPX 1.0 element in m/s
type gpxPoint struct {
	Lat   float64  `xml:"lat,attr"`
	Lon   float64  `xml:"lon,attr"`
	Time  string   `xml:"time"`
	Speed *float64 `xml:"speed"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxFile struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

// parseGPX reads all track points in document order. Points without a valid
// time are counted as skipped. Missing speeds are derived from the previous point.
func parseGPX(r io.Reader) ([]reading, int, error) {
	var doc gpxFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("failed to parse GPX: %w", err)
	}

	var readings []reading
	skipped := 0
	for _, track := range doc.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				ts, err := time.Parse(time.RFC3339, p.Time)
				if err != nil {
					skipped++
					continue
				}

				rd := reading{lat: p.Lat, lon: p.Lon, timestamp: ts.UTC()}
				switch {
				case p.Speed != nil:
					rd.speedKmh = *p.Speed * msToKmh
				case len(readings) > 0:
					rd.speedKmh = derivedSpeed(readings[len(readings)-1], rd)
				}
				readings = append(readings, rd)
			}
		}
	}
	return readings, skipped, nil
}

func derivedSpeed(prev, curr reading) float64 {
	hours := curr.timestamp.Sub(prev.timestamp).Hours()
	if hours <= 0 {
		return prev.speedKmh
	}
	return spatial.DistanceKm(prev.lat, prev.lon, curr.lat, curr.lon) / hours
}
