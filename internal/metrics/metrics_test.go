package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDay(t *testing.T) {
	c := NewCollector()
	seg := models.NewSegment([]models.Coordinate{{}}, models.SegmentNormal, models.StyleRoad)

	c.ObserveDay(models.DayResult{
		Day: models.Day{Fixes: make([]models.Fix, 4)},
		Events: []models.Event{
			models.MovementEvent(seg),
			models.NewStopEvent(models.Fix{}, models.Fix{}),
			models.MovementEvent(seg),
		},
		KmPosts:   make([]models.KmPost, 2),
		SpeedRuns: make([]models.SpeedRun, 1),
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.DaysProcessed))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.FixesProcessed))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Events.WithLabelValues("movement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Events.WithLabelValues("stop")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.KmPosts))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SpeedRuns))
}

func TestObserveRun(t *testing.T) {
	c := NewCollector()

	c.ObserveRun(3, time.Second, nil)
	c.ObserveRun(0, time.Second, errors.New("boom"))

	assert.Equal(t, 3.0, testutil.ToFloat64(c.LastRunDays))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RunsFailed))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveDay(models.DayResult{})
		c.ObserveRun(1, time.Second, nil)
	})
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.ObserveRun(2, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "trackmap_last_run_days 2")
}
