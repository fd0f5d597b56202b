package analysis

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/metrics"
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/track"
	"golang.org/x/sync/errgroup"
)

// Analyzer is the interface that all per-day analyzers must implement
type Analyzer interface {
	// GetName returns the name of the analyzer
	GetName() string

	// AnalyzeDay adds this analyzer's output for one day to result.
	// It must only touch the fields it owns.
	AnalyzeDay(day models.Day, result *models.DayResult)
}

// Settings carries the thresholds analyzers are built from
type Settings struct {
	Classifier track.Config
	Speed      track.SpeedConfig
}

// SettingsFromConfig derives the analyzer thresholds from the application config
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Classifier: track.Config{
			MaxDistanceKm:  cfg.MaxDistanceKm,
			StopThreshold:  cfg.StopThreshold(),
			KmStepKm:       cfg.KmSteps,
			KmPostsEnabled: cfg.KmSign,
		},
		Speed: track.SpeedConfig{
			ThresholdKmh:   cfg.SpeedMap,
			MarkersEnabled: cfg.SpeedMarkers,
		},
	}
}

// AnalyzerFactory is a function that creates an analyzer instance
type AnalyzerFactory func(settings Settings) Analyzer

// AnalyzerRegistry maps analyzer names to analyzer factories
var AnalyzerRegistry = make(map[string]AnalyzerFactory)

// RegisterAnalyzer registers an analyzer factory for a name
func RegisterAnalyzer(name string, factory AnalyzerFactory) {
	AnalyzerRegistry[name] = factory
}

// GetAnalyzer retrieves an analyzer instance for a name
func GetAnalyzer(name string, settings Settings) Analyzer {
	factory, ok := AnalyzerRegistry[name]
	if !ok {
		return nil
	}
	return factory(settings)
}

// RegisteredNames returns the sorted analyzer names
func RegisteredNames() []string {
	names := make([]string, 0, len(AnalyzerRegistry))
	for name := range AnalyzerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options tune how the engine runs
type Options struct {
	Workers        int  // concurrent days, at least 1
	StrictOrdering bool // reject days whose fixes go back in time
	Metrics        *metrics.Collector
}

// Engine runs the selected analyzers over every day and frames the view
type Engine struct {
	analyzers []Analyzer
	opts      Options
}

// NewEngine builds an engine from registered analyzer names
func NewEngine(names []string, settings Settings, opts Options) (*Engine, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no analyzers selected: %w", track.ErrInvalidInput)
	}

	analyzers := make([]Analyzer, 0, len(names))
	for _, name := range names {
		a := GetAnalyzer(name, settings)
		if a == nil {
			return nil, fmt.Errorf("unknown analyzer %q (registered: %v)", name, RegisteredNames())
		}
		analyzers = append(analyzers, a)
	}

	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Engine{analyzers: analyzers, opts: opts}, nil
}

// Run analyzes the days concurrently and returns the results in input order
func (e *Engine) Run(ctx context.Context, days []models.Day) (*models.RunResult, error) {
	start := time.Now()
	result, err := e.run(ctx, days)
	e.opts.Metrics.ObserveRun(len(days), time.Since(start), err)
	return result, err
}

func (e *Engine) run(ctx context.Context, days []models.Day) (*models.RunResult, error) {
	var all []models.Fix
	for _, day := range days {
		all = append(all, day.Fixes...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no fixes to analyze: %w", track.ErrInvalidInput)
	}

	log.Printf("[Engine] Starting analysis (days=%d, fixes=%d, workers=%d)", len(days), len(all), e.opts.Workers)

	results := make([]models.DayResult, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for i, day := range days {
		if err := gctx.Err(); err != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if e.opts.StrictOrdering {
				if err := track.ValidateOrder(day.Fixes); err != nil {
					return fmt.Errorf("day %s: %w", day.Name, err)
				}
			}

			r := models.DayResult{Day: day}
			for _, a := range e.analyzers {
				a.AnalyzeDay(day, &r)
			}
			results[i] = r
			e.opts.Metrics.ObserveDay(r)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view, err := track.FrameView(all)
	if err != nil {
		return nil, err
	}

	log.Printf("[Engine] Analysis completed: %d days, view center %.5f,%.5f", len(days), view.CenterLatitude, view.CenterLongitude)

	return &models.RunResult{
		Days:     results,
		View:     view,
		FixCount: len(all),
	}, nil
}
