package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/trackmap-go/internal/database"
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/stats"
	"github.com/jengzang/trackmap-go/internal/track"
)

// ErrNotFound is returned when a run or day does not exist
var ErrNotFound = errors.New("not found")

// RunRepository handles database operations for processing runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun stores a run with all of its days in one transaction and returns the run ID
func (r *RunRepository) SaveRun(run *models.Run, result *models.RunResult) (int64, error) {
	var runID int64

	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		if run.CreatedAt == 0 {
			run.CreatedAt = time.Now().Unix()
		}
		res, err := tx.Exec(`INSERT INTO runs (file_type, map_type, file_count, fix_count, skipped_count,
			center_lat, center_lon, altitude_m, range_m, outputs, duration_ms, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.FileType, run.MapType, run.FileCount, run.FixCount, run.SkippedCount,
			run.CenterLat, run.CenterLon, run.AltitudeM, run.RangeM,
			strings.Join(run.Outputs, ","), run.DurationMs, run.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get run id: %w", err)
		}

		for seq, day := range result.Days {
			if err := insertDay(tx, runID, seq, day); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	run.ID = runID
	return runID, nil
}

func insertDay(tx *sql.Tx, runID int64, seq int, day models.DayResult) error {
	s := summarize(day)
	res, err := tx.Exec(`INSERT INTO days (run_id, seq, day_key, name, month, fix_count, start_time, end_time,
		distance_km, movement_count, disruption_count, stop_count, avg_speed_kmh, p95_speed_kmh, max_speed_kmh)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, seq, s.Key, s.Name, s.Month, s.FixCount, s.StartTime, s.EndTime,
		s.DistanceKm, s.MovementCount, s.DisruptionCount, s.StopCount, s.AvgSpeedKmh, s.P95SpeedKmh, s.MaxSpeedKmh)
	if err != nil {
		return fmt.Errorf("failed to insert day %s: %w", day.Day.Name, err)
	}
	dayID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get day id: %w", err)
	}

	segStmt, err := tx.Prepare(`INSERT INTO segments (day_id, seq, kind, name, style_id, point_count,
		start_time, end_time, length_km, heading_deg, coordinates) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare segment insert: %w", err)
	}
	defer segStmt.Close()

	gapStmt, err := tx.Prepare(`INSERT INTO gaps (day_id, seq, kind, from_lat, from_lon, from_time,
		to_lat, to_lon, to_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare gap insert: %w", err)
	}
	defer gapStmt.Close()

	insertSegment := func(seq int, kind string, segment models.Segment, lengthKm float64, heading *float64) error {
		coords, err := encodePoints(segment.Points)
		if err != nil {
			return err
		}
		_, err = segStmt.Exec(dayID, seq, kind, segment.Name, segment.StyleID, len(segment.Points),
			segment.First().Timestamp.Unix(), segment.Last().Timestamp.Unix(), lengthKm, heading, coords)
		if err != nil {
			return fmt.Errorf("failed to insert %s segment: %w", kind, err)
		}
		return nil
	}

	for i, e := range day.Events {
		switch e.Kind {
		case models.EventMovement:
			if err := insertSegment(i, string(models.EventMovement), *e.Segment, track.PathLengthKm(e.Segment.Points), nil); err != nil {
				return err
			}
		case models.EventDisruption:
			if err := insertGap(gapStmt, dayID, i, e.Kind, e.Disruption.From, e.Disruption.To); err != nil {
				return err
			}
		case models.EventStop:
			if err := insertGap(gapStmt, dayID, i, e.Kind, e.Stop.From, e.Stop.To); err != nil {
				return err
			}
		}
	}

	for i, run := range day.SpeedRuns {
		var heading *float64
		if run.Markers != nil {
			h := run.Markers.HeadingDegrees
			heading = &h
		}
		if err := insertSegment(i, "speed", run.Segment, run.LengthKm, heading); err != nil {
			return err
		}
	}

	for i, post := range day.KmPosts {
		_, err := tx.Exec(`INSERT INTO km_posts (day_id, seq, km, traveled_km, heading_deg, lat, lon, fix_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			dayID, i, post.CumulativeDistanceKm, post.TraveledKm, post.HeadingDegrees,
			post.Fix.Latitude, post.Fix.Longitude, post.Fix.Timestamp.Unix())
		if err != nil {
			return fmt.Errorf("failed to insert km post: %w", err)
		}
	}

	return nil
}

func insertGap(stmt *sql.Stmt, dayID int64, seq int, kind models.EventKind, from, to models.Fix) error {
	_, err := stmt.Exec(dayID, seq, string(kind),
		from.Latitude, from.Longitude, from.Timestamp.Unix(),
		to.Latitude, to.Longitude, to.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", kind, err)
	}
	return nil
}

// summarize reduces a day result to its stored summary row
func summarize(day models.DayResult) models.DaySummary {
	s := models.DaySummary{
		Key:             day.Day.Key,
		Name:            day.Day.Name,
		Month:           day.Day.Month,
		FixCount:        len(day.Day.Fixes),
		MovementCount:   day.CountEvents(models.EventMovement),
		DisruptionCount: day.CountEvents(models.EventDisruption),
		StopCount:       day.CountEvents(models.EventStop),
	}
	if n := len(day.Day.Fixes); n > 0 {
		s.StartTime = day.Day.Fixes[0].Timestamp.Unix()
		s.EndTime = day.Day.Fixes[n-1].Timestamp.Unix()
	}
	for _, segment := range day.Segments() {
		s.DistanceKm += track.PathLengthKm(segment.Points)
	}
	profile := stats.Profile(day.Day.Fixes)
	s.AvgSpeedKmh, s.P95SpeedKmh, s.MaxSpeedKmh = profile.AvgKmh, profile.P95Kmh, profile.MaxKmh
	return s
}

func encodePoints(points []models.Coordinate) (string, error) {
	pairs := make([][2]float64, len(points))
	for i, p := range points {
		pairs[i] = [2]float64{p.Longitude, p.Latitude}
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("failed to encode coordinates: %w", err)
	}
	return string(data), nil
}

const runColumns = `id, file_type, map_type, file_count, fix_count, skipped_count,
	center_lat, center_lon, altitude_m, range_m, outputs, duration_ms, created_at`

// LatestRun returns the most recent run
func (r *RunRepository) LatestRun() (*models.Run, error) {
	return r.scanRun(r.db.QueryRow(`SELECT ` + runColumns + ` FROM runs ORDER BY id DESC LIMIT 1`))
}

// GetRun returns a run by ID
func (r *RunRepository) GetRun(id int64) (*models.Run, error) {
	return r.scanRun(r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
}

func (r *RunRepository) scanRun(row *sql.Row) (*models.Run, error) {
	var run models.Run
	var outputs string
	err := row.Scan(&run.ID, &run.FileType, &run.MapType, &run.FileCount, &run.FixCount, &run.SkippedCount,
		&run.CenterLat, &run.CenterLon, &run.AltitudeM, &run.RangeM, &outputs, &run.DurationMs, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	if outputs != "" {
		run.Outputs = strings.Split(outputs, ",")
	}
	return &run, nil
}

const dayColumns = `id, run_id, seq, day_key, name, month, fix_count, start_time, end_time,
	distance_km, movement_count, disruption_count, stop_count, avg_speed_kmh, p95_speed_kmh, max_speed_kmh`

func scanDay(scan func(dest ...any) error) (models.DaySummary, error) {
	var d models.DaySummary
	err := scan(&d.ID, &d.RunID, &d.Seq, &d.Key, &d.Name, &d.Month, &d.FixCount, &d.StartTime, &d.EndTime,
		&d.DistanceKm, &d.MovementCount, &d.DisruptionCount, &d.StopCount, &d.AvgSpeedKmh, &d.P95SpeedKmh, &d.MaxSpeedKmh)
	return d, err
}

// ListDays retrieves the days of a run in run order with filtering and pagination
func (r *RunRepository) ListDays(runID int64, filter models.DayFilter) ([]models.DaySummary, int64, error) {
	conditions := []string{"run_id = ?"}
	args := []interface{}{runID}

	if filter.Month != "" {
		conditions = append(conditions, "month = ?")
		args = append(args, filter.Month)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM days"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count days: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	offset := (filter.Page - 1) * filter.PageSize
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query("SELECT "+dayColumns+" FROM days"+where+" ORDER BY seq LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query days: %w", err)
	}
	defer rows.Close()

	var days []models.DaySummary
	for rows.Next() {
		d, err := scanDay(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan day: %w", err)
		}
		days = append(days, d)
	}

	return days, total, rows.Err()
}

// GetDay returns a day with its segments, gaps and kilometer posts
func (r *RunRepository) GetDay(id int64) (*models.DayDetail, error) {
	summary, err := scanDay(r.db.QueryRow("SELECT "+dayColumns+" FROM days WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("day %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan day: %w", err)
	}

	detail := &models.DayDetail{DaySummary: summary}

	if detail.Segments, err = r.daySegments(id); err != nil {
		return nil, err
	}
	if detail.Gaps, err = r.dayGaps(id); err != nil {
		return nil, err
	}
	if detail.KmPosts, err = r.dayKmPosts(id); err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *RunRepository) daySegments(dayID int64) ([]models.StoredSegment, error) {
	rows, err := r.db.Query(`SELECT seq, kind, name, style_id, point_count, start_time, end_time,
		length_km, heading_deg, coordinates FROM segments WHERE day_id = ? ORDER BY kind, seq`, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []models.StoredSegment
	for rows.Next() {
		var s models.StoredSegment
		var heading sql.NullFloat64
		var coords string
		if err := rows.Scan(&s.Seq, &s.Kind, &s.Name, &s.StyleID, &s.PointCount, &s.StartTime, &s.EndTime,
			&s.LengthKm, &heading, &coords); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		if heading.Valid {
			s.HeadingDeg = &heading.Float64
		}
		if err := json.Unmarshal([]byte(coords), &s.Points); err != nil {
			return nil, fmt.Errorf("failed to decode coordinates: %w", err)
		}
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

func (r *RunRepository) dayGaps(dayID int64) ([]models.StoredGap, error) {
	rows, err := r.db.Query(`SELECT seq, kind, from_lat, from_lon, from_time, to_lat, to_lon, to_time
		FROM gaps WHERE day_id = ? ORDER BY seq`, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gaps: %w", err)
	}
	defer rows.Close()

	var gaps []models.StoredGap
	for rows.Next() {
		var g models.StoredGap
		if err := rows.Scan(&g.Seq, &g.Kind, &g.FromLat, &g.FromLon, &g.FromTime, &g.ToLat, &g.ToLon, &g.ToTime); err != nil {
			return nil, fmt.Errorf("failed to scan gap: %w", err)
		}
		gaps = append(gaps, g)
	}
	return gaps, rows.Err()
}

func (r *RunRepository) dayKmPosts(dayID int64) ([]models.StoredKmPost, error) {
	rows, err := r.db.Query(`SELECT seq, km, traveled_km, heading_deg, lat, lon, fix_time
		FROM km_posts WHERE day_id = ? ORDER BY seq`, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to query km posts: %w", err)
	}
	defer rows.Close()

	var posts []models.StoredKmPost
	for rows.Next() {
		var p models.StoredKmPost
		if err := rows.Scan(&p.Seq, &p.Km, &p.TraveledKm, &p.HeadingDeg, &p.Lat, &p.Lon, &p.Time); err != nil {
			return nil, fmt.Errorf("failed to scan km post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
