package models

import "time"

// EventKind identifies the classification of a day event
type EventKind string

// EventKind constants
const (
	EventMovement   EventKind = "movement"
	EventDisruption EventKind = "disruption"
	EventStop       EventKind = "stop"
)

// DisruptionEvent is a gap where consecutive fixes are farther apart than the maximum distance
type DisruptionEvent struct {
	From Fix `json:"from"`
	To   Fix `json:"to"`
}

// StopEvent is a gap where the time between consecutive fixes reaches the stop threshold
type StopEvent struct {
	From Fix `json:"from"`
	To   Fix `json:"to"`
}

// Duration returns the parking time
func (e StopEvent) Duration() time.Duration {
	return e.To.Timestamp.Sub(e.From.Timestamp)
}

// Event is one item of a classified day, in chronological order.
// Exactly one of Segment, Disruption, Stop is set, matching Kind.
type Event struct {
	Kind       EventKind        `json:"kind"`
	Segment    *Segment         `json:"segment,omitempty"`
	Disruption *DisruptionEvent `json:"disruption,omitempty"`
	Stop       *StopEvent       `json:"stop,omitempty"`
}

// MovementEvent wraps a movement segment
func MovementEvent(s Segment) Event {
	return Event{Kind: EventMovement, Segment: &s}
}

// NewDisruptionEvent wraps a disruption between two fixes
func NewDisruptionEvent(from, to Fix) Event {
	return Event{Kind: EventDisruption, Disruption: &DisruptionEvent{From: from, To: to}}
}

// NewStopEvent wraps a stop between two fixes
func NewStopEvent(from, to Fix) Event {
	return Event{Kind: EventStop, Stop: &StopEvent{From: from, To: to}}
}

// KmPost is a marker placed where cumulative movement distance crosses a step boundary
type KmPost struct {
	Fix                  Fix     `json:"fix"`
	CumulativeDistanceKm float64 `json:"cumulativeDistanceKm"` // the boundary crossed
	TraveledKm           float64 `json:"traveledKm"`           // distance actually covered at the fix
	HeadingDegrees       float64 `json:"headingDegrees"`
}
