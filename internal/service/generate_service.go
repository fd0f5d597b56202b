package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jengzang/trackmap-go/internal/analysis"
	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/ingest"
	"github.com/jengzang/trackmap-go/internal/kml"
	"github.com/jengzang/trackmap-go/internal/metrics"
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/repository"
)

// ErrRunInProgress is returned when a generation is requested while one is running
var ErrRunInProgress = errors.New("generation already in progress")

// Report is the outcome of one generation
type Report struct {
	Run    *models.Run
	Result *models.RunResult
	Files  []ingest.FileResult
}

// GenerateService reads the data folder, classifies every day and writes the map files
type GenerateService struct {
	cfg     *config.Config
	reader  *ingest.Reader
	engine  *analysis.Engine
	gen     *kml.Generator
	repo    *repository.RunRepository // optional
	metrics *metrics.Collector        // optional

	mu sync.Mutex
}

// NewGenerateService wires the pipeline from the config. repo and collector may be nil.
func NewGenerateService(cfg *config.Config, repo *repository.RunRepository, collector *metrics.Collector) (*GenerateService, error) {
	reader, err := ingest.NewReader(ingest.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	engine, err := analysis.NewEngine(cfg.Analyzers(), analysis.SettingsFromConfig(cfg), analysis.Options{
		Workers:        cfg.Workers,
		StrictOrdering: cfg.StrictOrdering,
		Metrics:        collector,
	})
	if err != nil {
		return nil, err
	}

	return &GenerateService{
		cfg:     cfg,
		reader:  reader,
		engine:  engine,
		gen:     kml.NewGenerator(kml.OptionsFromConfig(cfg)),
		repo:    repo,
		metrics: collector,
	}, nil
}

// Generate runs the whole pipeline once. Concurrent calls fail with ErrRunInProgress.
func (s *GenerateService) Generate(ctx context.Context) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	start := time.Now()
	log.Printf("[Generate] Starting (folder=%s, type=%s, map=%s)", s.cfg.DataDir, s.cfg.FileType, s.cfg.MapType)

	input, err := s.reader.ReadDir(ctx, s.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	fixes := ingest.MergeDescriptions(input.Fixes)
	days := ingest.GroupDays(fixes, s.cfg.FileMerge)

	result, err := s.engine.Run(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze: %w", err)
	}

	outputs, err := s.writeOutputs(result)
	if err != nil {
		return nil, err
	}

	run := &models.Run{
		FileType:     s.cfg.FileType,
		MapType:      s.cfg.MapType,
		FileCount:    len(input.Files),
		FixCount:     result.FixCount,
		SkippedCount: input.Skipped,
		CenterLat:    result.View.CenterLatitude,
		CenterLon:    result.View.CenterLongitude,
		AltitudeM:    result.View.AltitudeMeters,
		RangeM:       result.View.RangeMeters,
		Outputs:      outputs,
		DurationMs:   time.Since(start).Milliseconds(),
		CreatedAt:    time.Now().Unix(),
	}

	if s.repo != nil {
		if _, err := s.repo.SaveRun(run, result); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
	}

	log.Printf("[Generate] Completed in %dms: %d files, %d days, outputs %v",
		run.DurationMs, run.FileCount, len(result.Days), outputs)

	return &Report{Run: run, Result: result, Files: input.Files}, nil
}

// layers builds the requested documents in map, speed order
func (s *GenerateService) layers(result *models.RunResult) []kml.Layer {
	var layers []kml.Layer
	if s.cfg.WantsMap() {
		layers = append(layers, kml.Layer{
			FileName:    s.cfg.MapFile,
			Name:        "Map",
			Description: "Draw lines to map. File type: " + s.cfg.FileType,
			Doc:         s.gen.MapDocument(result),
		})
	}
	if s.cfg.WantsSpeed() {
		layers = append(layers, kml.Layer{
			FileName:    s.cfg.SpeedFile,
			Name:        "Speed",
			Description: fmt.Sprintf("Speed %g km/h or more. File type: %s", s.cfg.SpeedMap, s.cfg.FileType),
			Doc:         s.gen.SpeedDocument(result),
		})
	}
	return layers
}

func (s *GenerateService) writeOutputs(result *models.RunResult) ([]string, error) {
	layers := s.layers(result)

	if s.cfg.Kmz {
		if err := kml.WriteKMZFile(s.cfg.KmzFile, result.View, layers, s.cfg.IconDir); err != nil {
			return nil, err
		}
		return []string{s.cfg.KmzFile}, nil
	}

	var outputs []string
	for _, l := range layers {
		if err := kml.WriteFile(l.FileName, l.Doc); err != nil {
			return nil, err
		}
		outputs = append(outputs, l.FileName)
	}
	return outputs, nil
}
