package models

// Day is one calendar day (or day group) of time-ordered fixes
type Day struct {
	Key   string `json:"key"`   // grouping key, description plus optional explanation
	Name  string `json:"name"`  // display name
	Month string `json:"month"` // YYYY-MM
	Fixes []Fix  `json:"-"`
}

// SpeedMarkers are the optional start, end and direction markers of a speed run
type SpeedMarkers struct {
	Start          Coordinate `json:"start"`
	End            Coordinate `json:"end"`
	HeadingDegrees float64    `json:"headingDegrees"`
}

// SpeedRun is a stretch where speed stays at or above the threshold
type SpeedRun struct {
	Segment  Segment       `json:"segment"`
	LengthKm float64       `json:"lengthKm"`
	Markers  *SpeedMarkers `json:"markers,omitempty"`
}

// DayResult collects everything derived from one day
type DayResult struct {
	Day       Day        `json:"day"`
	Events    []Event    `json:"events"`
	KmPosts   []KmPost   `json:"kmPosts"`
	SpeedRuns []SpeedRun `json:"speedRuns"`
}

// Segments returns the movement segments in order
func (r DayResult) Segments() []Segment {
	var segments []Segment
	for _, e := range r.Events {
		if e.Kind == EventMovement && e.Segment != nil {
			segments = append(segments, *e.Segment)
		}
	}
	return segments
}

// CountEvents returns the number of events of the given kind
func (r DayResult) CountEvents(kind EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// RunResult is the ordered output of one processing run
type RunResult struct {
	Days     []DayResult `json:"days"`
	View     ViewFrame   `json:"view"`
	FixCount int         `json:"fixCount"`
}
