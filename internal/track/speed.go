package track

import (
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/spatial"
)

// MinMarkerLengthKm is the shortest speed run that gets start, end and direction markers
const MinMarkerLengthKm = 0.01

// SpeedConfig holds the speed extraction settings
type SpeedConfig struct {
	ThresholdKmh   float64
	MarkersEnabled bool
}

// ExtractSpeedRuns returns the maximal runs of adjacent fix pairs where both fixes
// move at or above the threshold. It is a separate pass from the classifier.
func ExtractSpeedRuns(fixes []models.Fix, cfg SpeedConfig) []models.SpeedRun {
	var runs []models.SpeedRun
	var current []models.Coordinate

	emit := func(last models.Fix) {
		current = append(current, last.Coordinate())
		if run, ok := newSpeedRun(current, cfg); ok {
			runs = append(runs, run)
		}
		current = nil
	}

	for i := 1; i < len(fixes); i++ {
		prev := fixes[i-1]
		curr := fixes[i]

		if prev.SpeedKmh >= cfg.ThresholdKmh && curr.SpeedKmh >= cfg.ThresholdKmh {
			current = append(current, prev.Coordinate())
			if i == len(fixes)-1 {
				emit(curr)
			}
			continue
		}

		// prev closed the run as the last fix of the final qualifying pair
		if len(current) > 0 {
			emit(prev)
		}
	}

	return runs
}

func newSpeedRun(points []models.Coordinate, cfg SpeedConfig) (models.SpeedRun, bool) {
	if len(points) < 2 {
		return models.SpeedRun{}, false
	}

	run := models.SpeedRun{
		Segment:  models.NewSegment(points, models.SegmentSpeed, models.StyleSpeed),
		LengthKm: PathLengthKm(points),
	}

	if cfg.MarkersEnabled && run.LengthKm >= MinMarkerLengthKm {
		first, second := points[0], points[1]
		run.Markers = &models.SpeedMarkers{
			Start:          first,
			End:            points[len(points)-1],
			HeadingDegrees: spatial.BearingDegrees(first.Latitude, first.Longitude, second.Latitude, second.Longitude),
		}
	}

	return run, true
}

// PathLengthKm sums the pairwise distances along the points
func PathLengthKm(points []models.Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		p1, p2 := points[i-1], points[i]
		total += spatial.DistanceKm(p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude)
	}
	return total
}
