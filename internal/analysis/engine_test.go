package analysis_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jengzang/trackmap-go/internal/analysis"
	_ "github.com/jengzang/trackmap-go/internal/analysis/movement"
	_ "github.com/jengzang/trackmap-go/internal/analysis/speed"
	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/metrics"
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/spatial"
	"github.com/jengzang/trackmap-go/internal/track"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settings() analysis.Settings {
	return analysis.Settings{
		Classifier: track.Config{
			MaxDistanceKm:  2,
			StopThreshold:  5 * time.Minute,
			KmStepKm:       0.5,
			KmPostsEnabled: true,
		},
		Speed: track.SpeedConfig{ThresholdKmh: 50, MarkersEnabled: true},
	}
}

// makeDay builds n fixes heading north 0.2 km and one minute apart
func makeDay(index, n int) models.Day {
	start := time.Date(2024, 5, 1+index, 8, 0, 0, 0, time.UTC)
	key := start.Format("2006-01-02")
	fixes := make([]models.Fix, n)
	for i := range n {
		fixes[i] = models.Fix{
			Latitude:  58 + float64(index) + float64(i)*0.2/spatial.KmPerDegree,
			Longitude: 24,
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			SpeedKmh:  60,
			DayKey:    key,
		}
	}
	return models.Day{Key: key, Name: key, Month: key[:7], Fixes: fixes}
}

func TestRegistry(t *testing.T) {
	assert.Contains(t, analysis.RegisteredNames(), "movement")
	assert.Contains(t, analysis.RegisteredNames(), "speed")
	assert.Nil(t, analysis.GetAnalyzer("nope", settings()))
	assert.Equal(t, "speed", analysis.GetAnalyzer("speed", settings()).GetName())
}

func TestNewEngineErrors(t *testing.T) {
	_, err := analysis.NewEngine(nil, settings(), analysis.Options{})
	assert.True(t, errors.Is(err, track.ErrInvalidInput))

	_, err = analysis.NewEngine([]string{"movement", "altitude"}, settings(), analysis.Options{})
	assert.Error(t, err)
}

func TestRunPreservesDayOrder(t *testing.T) {
	var days []models.Day
	for i := range 12 {
		days = append(days, makeDay(i, 3+i))
	}

	collector := metrics.NewCollector()
	engine, err := analysis.NewEngine([]string{"movement", "speed"}, settings(), analysis.Options{
		Workers:        4,
		StrictOrdering: true,
		Metrics:        collector,
	})
	require.NoError(t, err)

	result, err := engine.Run(context.Background(), days)
	require.NoError(t, err)

	require.Len(t, result.Days, len(days))
	total := 0
	for i, r := range result.Days {
		assert.Equal(t, days[i].Key, r.Day.Key, fmt.Sprintf("day %d out of order", i))
		require.Len(t, r.Segments(), 1)
		assert.Len(t, r.Segments()[0].Points, len(days[i].Fixes))
		require.Len(t, r.SpeedRuns, 1)
		assert.NotNil(t, r.SpeedRuns[0].Markers)
		total += len(days[i].Fixes)
	}
	assert.Equal(t, total, result.FixCount)
	assert.Greater(t, result.View.AltitudeMeters, 0.0)

	assert.Equal(t, float64(len(days)), testutil.ToFloat64(collector.DaysProcessed))
	assert.Equal(t, float64(total), testutil.ToFloat64(collector.FixesProcessed))
}

func TestRunMovementOnly(t *testing.T) {
	engine, err := analysis.NewEngine([]string{"movement"}, settings(), analysis.Options{Workers: 2})
	require.NoError(t, err)

	result, err := engine.Run(context.Background(), []models.Day{makeDay(0, 10)})
	require.NoError(t, err)

	// 9 steps of 0.2 km with a 0.5 km step: posts at 0.5, 1.0, 1.5
	assert.Len(t, result.Days[0].KmPosts, 3)
	assert.Empty(t, result.Days[0].SpeedRuns)
}

func TestRunRejectsUnorderedDay(t *testing.T) {
	days := []models.Day{makeDay(0, 4), makeDay(1, 4)}
	days[1].Fixes[2].Timestamp = days[1].Fixes[0].Timestamp.Add(-time.Minute)

	strict, err := analysis.NewEngine([]string{"movement"}, settings(), analysis.Options{StrictOrdering: true})
	require.NoError(t, err)
	_, err = strict.Run(context.Background(), days)
	assert.True(t, errors.Is(err, track.ErrUnorderedInput))

	lenient, err := analysis.NewEngine([]string{"movement"}, settings(), analysis.Options{})
	require.NoError(t, err)
	_, err = lenient.Run(context.Background(), days)
	assert.NoError(t, err)
}

func TestRunEmptyInput(t *testing.T) {
	engine, err := analysis.NewEngine([]string{"movement"}, settings(), analysis.Options{})
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), nil)
	assert.True(t, errors.Is(err, track.ErrInvalidInput))

	_, err = engine.Run(context.Background(), []models.Day{{Key: "2024-05-01"}})
	assert.True(t, errors.Is(err, track.ErrInvalidInput))
}

func TestRunCanceled(t *testing.T) {
	engine, err := analysis.NewEngine([]string{"movement"}, settings(), analysis.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = engine.Run(ctx, []models.Day{makeDay(0, 4)})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.StopMinutes = 7
	cfg.KmSign = true
	cfg.SpeedMarkers = true

	s := analysis.SettingsFromConfig(cfg)
	assert.Equal(t, 7*time.Minute, s.Classifier.StopThreshold)
	assert.Equal(t, cfg.MaxDistanceKm, s.Classifier.MaxDistanceKm)
	assert.Equal(t, cfg.KmSteps, s.Classifier.KmStepKm)
	assert.True(t, s.Classifier.KmPostsEnabled)
	assert.Equal(t, cfg.SpeedMap, s.Speed.ThresholdKmh)
	assert.True(t, s.Speed.MarkersEnabled)
}
