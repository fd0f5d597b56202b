package models

// ViewFrame holds the initial camera placement for the whole run
type ViewFrame struct {
	CenterLatitude  float64 `json:"centerLatitude"`
	CenterLongitude float64 `json:"centerLongitude"`
	AltitudeMeters  float64 `json:"altitudeMeters"`
	RangeMeters     float64 `json:"rangeMeters"`
}
