package track

import (
	"slices"
	"time"

	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/spatial"
)

// Config holds the classification thresholds
type Config struct {
	MaxDistanceKm  float64       // a larger gap between fixes is a disruption
	StopThreshold  time.Duration // a gap at least this long is a stop
	KmStepKm       float64       // kilometer-post spacing, may be fractional
	KmPostsEnabled bool
}

// Classification is the classifier output for one day
type Classification struct {
	Events  []models.Event
	KmPosts []models.KmPost
}

// Segments returns the movement segments in order
func (c Classification) Segments() []models.Segment {
	var segments []models.Segment
	for _, e := range c.Events {
		if e.Kind == models.EventMovement {
			segments = append(segments, *e.Segment)
		}
	}
	return segments
}

// history is an append-only list shared by copies of a State.
// Only the copy whose view ends at the shared end grows the backing array in place;
// any other copy clones before appending, so earlier states never change.
type history[T any] struct {
	items []T
	end   *int
}

func (h history[T]) add(v ...T) history[T] {
	if h.end == nil || len(h.items) != *h.end {
		h.items = slices.Clone(h.items)
		h.end = new(int)
	}
	h.items = append(h.items, v...)
	*h.end = len(h.items)
	return h
}

// State is the classifier accumulator threaded through Step.
// The zero value is the state before the first fix of a day.
// States are values: stepping the same state twice gives two independent branches.
type State struct {
	previous *models.Fix
	buffer   history[models.Coordinate]
	counter  KmPostCounter
	events   history[models.Event]
	posts    history[models.KmPost]
}

// Result returns the state's output with the open segment flushed
func (s State) Result() Classification {
	s = s.flush()
	return Classification{Events: slices.Clip(s.events.items), KmPosts: slices.Clip(s.posts.items)}
}

// Buffered returns the number of points in the open segment
func (s State) Buffered() int {
	return len(s.buffer.items)
}

// flush emits the open segment as a movement event and clears the buffer
func (s State) flush() State {
	if len(s.buffer.items) == 0 {
		return s
	}
	s.events = s.events.add(models.MovementEvent(models.NewSegment(s.buffer.items, models.SegmentNormal, models.StyleRoad)))
	s.buffer = history[models.Coordinate]{}
	return s
}

// seed starts a new open segment at the fix
func (s State) seed(fix models.Fix) State {
	s.buffer = history[models.Coordinate]{}.add(fix.Coordinate())
	return s
}

// Classifier splits a day of fixes into movement segments, disruptions and stops,
// placing kilometer posts along movement.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a classifier
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Start returns the initial state for a new day
func (c *Classifier) Start() State {
	step := 0.0
	if c.cfg.KmPostsEnabled {
		step = c.cfg.KmStepKm
	}
	return State{counter: NewKmPostCounter(step)}
}

// Step consumes the next fix of the day and returns the new state
func (c *Classifier) Step(s State, current models.Fix) State {
	if s.previous == nil {
		s = s.seed(current)
		s.previous = &current
		return s
	}

	previous := *s.previous
	distance := spatial.DistanceKm(previous.Latitude, previous.Longitude, current.Latitude, current.Longitude)
	elapsed := current.Timestamp.Sub(previous.Timestamp)

	disrupted := distance > c.cfg.MaxDistanceKm
	stopped := elapsed >= c.cfg.StopThreshold

	// Both checks are independent; a pair may yield a disruption and a stop
	if disrupted {
		s = s.flush()
		s.events = s.events.add(models.NewDisruptionEvent(previous, current))
	}
	if stopped {
		s = s.flush()
		s.events = s.events.add(models.NewStopEvent(previous, current))
	}

	if disrupted || stopped {
		s = s.seed(current)
	} else {
		s.buffer = s.buffer.add(current.Coordinate())

		var crossed []float64
		s.counter, crossed = s.counter.Advance(distance)
		if len(crossed) > 0 {
			heading := spatial.BearingDegrees(previous.Latitude, previous.Longitude, current.Latitude, current.Longitude)
			for _, boundary := range crossed {
				s.posts = s.posts.add(models.KmPost{
					Fix:                  current,
					CumulativeDistanceKm: boundary,
					TraveledKm:           s.counter.Total(),
					HeadingDegrees:       heading,
				})
			}
		}
	}

	s.previous = &current
	return s
}

// Classify walks the fixes of one day in order.
// Fixes must be ascending by timestamp; see ValidateOrder.
func (c *Classifier) Classify(fixes []models.Fix) Classification {
	s := c.Start()
	for _, fix := range fixes {
		s = c.Step(s, fix)
	}
	return s.Result()
}
