package models

import "time"

// Style IDs shared by the classifier and the markup writer
const (
	StyleRoad      = "lineStyleRoad"
	StyleSpeed     = "lineStyleSpeed"
	StyleDisrupted = "lineStyleDisrupted"
)

// Segment names
const (
	SegmentNormal = "Normal Line"
	SegmentSpeed  = "Speed Line"
)

// Segment is one continuous classified stretch of coordinates sharing a rendering style.
// A segment is never empty and is not modified after it has been emitted.
type Segment struct {
	Points  []Coordinate `json:"points"`
	Name    string       `json:"name"`
	StyleID string       `json:"styleId"`
}

// NewSegment copies points into a new segment
func NewSegment(points []Coordinate, name, styleID string) Segment {
	owned := make([]Coordinate, len(points))
	copy(owned, points)
	return Segment{Points: owned, Name: name, StyleID: styleID}
}

// First returns the first point
func (s Segment) First() Coordinate {
	return s.Points[0]
}

// Last returns the last point
func (s Segment) Last() Coordinate {
	return s.Points[len(s.Points)-1]
}

// IsPoint reports whether the segment is a single point with no line geometry
func (s Segment) IsPoint() bool {
	return len(s.Points) == 1
}

// Duration returns the time between the first and last points
func (s Segment) Duration() time.Duration {
	return s.Last().Timestamp.Sub(s.First().Timestamp)
}
