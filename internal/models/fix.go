package models

import "time"

// Fix represents one timestamped GPS reading, normalized from any input format
type Fix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	SpeedKmh  float64   `json:"speedKmh"`

	// Tags derived from the source file name
	DayKey      string `json:"dayKey"`      // YYYY-MM-DD
	Explanation string `json:"explanation"` // 2024-01-31_explanation_description.txt
	Description string `json:"description"` // rewritten by the description merge
	GroupName   string `json:"groupName"`   // date plus the description from the file name
}

// Coordinate returns the positional identity of the fix
func (f Fix) Coordinate() Coordinate {
	return Coordinate{
		Longitude: f.Longitude,
		Latitude:  f.Latitude,
		Timestamp: f.Timestamp,
	}
}

// WithDescription returns a copy of the fix carrying a new description
func (f Fix) WithDescription(description string) Fix {
	f.Description = description
	return f
}

// Coordinate is an immutable position with its time
type Coordinate struct {
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Timestamp time.Time `json:"timestamp"`
}
