package models

// Run is a persisted processing run
type Run struct {
	ID int64 `json:"id" db:"id"`

	FileType     string `json:"file_type" db:"file_type"`
	MapType      string `json:"map_type" db:"map_type"`
	FileCount    int    `json:"file_count" db:"file_count"`
	FixCount     int    `json:"fix_count" db:"fix_count"`
	SkippedCount int    `json:"skipped_count" db:"skipped_count"` // malformed input records

	// Initial camera
	CenterLat float64 `json:"center_lat" db:"center_lat"`
	CenterLon float64 `json:"center_lon" db:"center_lon"`
	AltitudeM float64 `json:"altitude_m" db:"altitude_m"`
	RangeM    float64 `json:"range_m" db:"range_m"`

	Outputs    []string `json:"outputs" db:"outputs"` // written files
	DurationMs int64    `json:"duration_ms" db:"duration_ms"`
	CreatedAt  int64    `json:"created_at" db:"created_at"` // Unix timestamp
}

// DaySummary is a persisted day of a run
type DaySummary struct {
	ID    int64 `json:"id" db:"id"`
	RunID int64 `json:"run_id" db:"run_id"`
	Seq   int   `json:"seq" db:"seq"` // position in the run

	Key   string `json:"key" db:"day_key"`
	Name  string `json:"name" db:"name"`
	Month string `json:"month" db:"month"`

	FixCount  int   `json:"fix_count" db:"fix_count"`
	StartTime int64 `json:"start_time" db:"start_time"` // Unix timestamp
	EndTime   int64 `json:"end_time" db:"end_time"`     // Unix timestamp

	DistanceKm      float64 `json:"distance_km" db:"distance_km"` // sum of movement segments
	MovementCount   int     `json:"movement_count" db:"movement_count"`
	DisruptionCount int     `json:"disruption_count" db:"disruption_count"`
	StopCount       int     `json:"stop_count" db:"stop_count"`

	// Recorded speeds
	AvgSpeedKmh float64 `json:"avg_speed_kmh" db:"avg_speed_kmh"`
	P95SpeedKmh float64 `json:"p95_speed_kmh" db:"p95_speed_kmh"`
	MaxSpeedKmh float64 `json:"max_speed_kmh" db:"max_speed_kmh"`
}

// StoredSegment is a persisted movement or speed segment
type StoredSegment struct {
	Seq        int          `json:"seq" db:"seq"`
	Kind       string       `json:"kind" db:"kind"` // movement, speed
	Name       string       `json:"name" db:"name"`
	StyleID    string       `json:"style_id" db:"style_id"`
	PointCount int          `json:"point_count" db:"point_count"`
	StartTime  int64        `json:"start_time" db:"start_time"`
	EndTime    int64        `json:"end_time" db:"end_time"`
	LengthKm   float64      `json:"length_km" db:"length_km"`
	HeadingDeg *float64     `json:"heading_deg,omitempty" db:"heading_deg"` // speed runs with markers
	Points     [][2]float64 `json:"points" db:"coordinates"`                // [lon, lat]
}

// StoredGap is a persisted disruption or stop
type StoredGap struct {
	Seq      int     `json:"seq" db:"seq"`
	Kind     string  `json:"kind" db:"kind"` // disruption, stop
	FromLat  float64 `json:"from_lat" db:"from_lat"`
	FromLon  float64 `json:"from_lon" db:"from_lon"`
	FromTime int64   `json:"from_time" db:"from_time"`
	ToLat    float64 `json:"to_lat" db:"to_lat"`
	ToLon    float64 `json:"to_lon" db:"to_lon"`
	ToTime   int64   `json:"to_time" db:"to_time"`
}

// StoredKmPost is a persisted kilometer post
type StoredKmPost struct {
	Seq        int     `json:"seq" db:"seq"`
	Km         float64 `json:"km" db:"km"`
	TraveledKm float64 `json:"traveled_km" db:"traveled_km"`
	HeadingDeg float64 `json:"heading_deg" db:"heading_deg"`
	Lat        float64 `json:"lat" db:"lat"`
	Lon        float64 `json:"lon" db:"lon"`
	Time       int64   `json:"time" db:"fix_time"`
}

// DayDetail is a day with everything classified in it
type DayDetail struct {
	DaySummary
	Segments []StoredSegment `json:"segments"`
	Gaps     []StoredGap     `json:"gaps"`
	KmPosts  []StoredKmPost  `json:"km_posts"`
}

// DayFilter represents filter parameters for listing days
type DayFilter struct {
	Month    string `form:"month"` // YYYY-MM
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
