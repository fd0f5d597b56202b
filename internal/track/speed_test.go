package track

import (
	"testing"
	"time"

	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSpeeds(speeds ...float64) []models.Fix {
	fixes := straightLine(len(speeds), 0.2)
	for i := range fixes {
		fixes[i].SpeedKmh = speeds[i]
	}
	return fixes
}

func TestExtractSpeedRunsMiddleRun(t *testing.T) {
	fixes := withSpeeds(40, 60, 70, 45)

	runs := ExtractSpeedRuns(fixes, SpeedConfig{ThresholdKmh: 50})

	require.Len(t, runs, 1)
	assert.Equal(t, []models.Coordinate{fixes[1].Coordinate(), fixes[2].Coordinate()}, runs[0].Segment.Points)
	assert.Equal(t, models.SegmentSpeed, runs[0].Segment.Name)
	assert.Equal(t, models.StyleSpeed, runs[0].Segment.StyleID)
	assert.InDelta(t, 0.2, runs[0].LengthKm, 1e-6)
	assert.Nil(t, runs[0].Markers)
}

func TestExtractSpeedRunsRunToEnd(t *testing.T) {
	fixes := withSpeeds(10, 60, 70, 80)

	runs := ExtractSpeedRuns(fixes, SpeedConfig{ThresholdKmh: 50})

	require.Len(t, runs, 1)
	assert.Equal(t, coordinates(fixes[1:]), runs[0].Segment.Points)
}

func TestExtractSpeedRunsSeveralRuns(t *testing.T) {
	fixes := withSpeeds(60, 60, 10, 70, 70, 70, 20, 90)

	runs := ExtractSpeedRuns(fixes, SpeedConfig{ThresholdKmh: 50})

	require.Len(t, runs, 2)
	assert.Equal(t, coordinates(fixes[0:2]), runs[0].Segment.Points)
	assert.Equal(t, coordinates(fixes[3:6]), runs[1].Segment.Points)
}

func TestExtractSpeedRunsThresholdIsInclusive(t *testing.T) {
	runs := ExtractSpeedRuns(withSpeeds(50, 50), SpeedConfig{ThresholdKmh: 50})
	assert.Len(t, runs, 1)
}

func TestExtractSpeedRunsNoRun(t *testing.T) {
	assert.Empty(t, ExtractSpeedRuns(nil, SpeedConfig{ThresholdKmh: 50}))
	assert.Empty(t, ExtractSpeedRuns(withSpeeds(90), SpeedConfig{ThresholdKmh: 50}))
	assert.Empty(t, ExtractSpeedRuns(withSpeeds(10, 60, 10, 60, 10), SpeedConfig{ThresholdKmh: 50}))
}

func TestExtractSpeedRunsMarkers(t *testing.T) {
	fixes := withSpeeds(60, 70, 80, 90)

	runs := ExtractSpeedRuns(fixes, SpeedConfig{ThresholdKmh: 50, MarkersEnabled: true})

	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].Markers)
	assert.Equal(t, fixes[0].Coordinate(), runs[0].Markers.Start)
	assert.Equal(t, fixes[3].Coordinate(), runs[0].Markers.End)
	assert.InDelta(t, 0.0, runs[0].Markers.HeadingDegrees, 1e-6)
}

func TestExtractSpeedRunsShortRunHasNoMarkers(t *testing.T) {
	// Two fixes about 5 meters apart
	fixes := []models.Fix{
		fixAt(baseLat, baseLon, 0, 80),
		fixAt(northOf(baseLat, 0.005), baseLon, time.Second, 80),
	}

	runs := ExtractSpeedRuns(fixes, SpeedConfig{ThresholdKmh: 50, MarkersEnabled: true})

	require.Len(t, runs, 1)
	assert.Less(t, runs[0].LengthKm, MinMarkerLengthKm)
	assert.Nil(t, runs[0].Markers)
}

func TestPathLengthKm(t *testing.T) {
	assert.Equal(t, 0.0, PathLengthKm(nil))
	assert.InDelta(t, 1.0, PathLengthKm(coordinates(straightLine(6, 0.2))), 1e-6)
}
