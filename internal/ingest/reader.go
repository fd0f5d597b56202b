package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/models"
	"golang.org/x/sync/errgroup"
)

// Options select the input format and its parsing rules
type Options struct {
	FileType  string
	OldCamera bool
	SpeedGPS  float64
	Workers   int
}

// OptionsFromConfig picks the reader settings out of the application config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		FileType:  cfg.FileType,
		OldCamera: cfg.OldCamera,
		SpeedGPS:  cfg.SpeedGPS,
		Workers:   cfg.Workers,
	}
}

// FileResult is what one input file produced
type FileResult struct {
	Name    string
	Fixes   []models.Fix
	Skipped int // malformed lines or points
}

// Result is the normalized content of a data folder
type Result struct {
	Files   []FileResult
	Fixes   []models.Fix // all fixes in file order
	Skipped int
}

// Reader turns input files into fixes
type Reader struct {
	opts Options
}

// NewReader creates a reader, rejecting formats that cannot be read
func NewReader(opts Options) (*Reader, error) {
	switch opts.FileType {
	case config.FileTypeKml, config.FileTypeLog:
		return nil, fmt.Errorf("%s input: %w", opts.FileType, ErrUnsupportedFormat)
	case config.FileTypeGpx:
	default:
		if _, err := lineParserFor(opts); err != nil {
			return nil, err
		}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Reader{opts: opts}, nil
}

// ReadDir discovers and reads every matching file in dir
func (r *Reader) ReadDir(ctx context.Context, dir string) (*Result, error) {
	names, err := Discover(dir, r.opts.FileType)
	if err != nil {
		return nil, err
	}

	log.Printf("[Ingest] Reading %d %s files from %s", len(names), r.opts.FileType, dir)

	files := make([]FileResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr, err := r.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			files[i] = *fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Files: files}
	for _, f := range files {
		result.Fixes = append(result.Fixes, f.Fixes...)
		result.Skipped += f.Skipped
		if f.Skipped > 0 {
			log.Printf("[Ingest] %s: skipped %d malformed records", f.Name, f.Skipped)
		}
	}

	log.Printf("[Ingest] Read %d fixes (%d skipped)", len(result.Fixes), result.Skipped)
	return result, nil
}

// ReadFile reads one input file, tagging its fixes with the file name metadata
func (r *Reader) ReadFile(path string) (*FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	fr, err := r.Read(name, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return fr, nil
}

// Read parses input content as if it came from a file called name
func (r *Reader) Read(name string, src io.Reader) (*FileResult, error) {
	meta := ParseFileName(name, r.opts.FileType)

	var readings []reading
	skipped := 0

	if r.opts.FileType == config.FileTypeGpx {
		var err error
		readings, skipped, err = parseGPX(src)
		if err != nil {
			return nil, err
		}
	} else {
		parse, err := lineParserFor(r.opts)
		if err != nil {
			return nil, err
		}

		scanner := bufio.NewScanner(src)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			rd, err := parse(strings.Split(line, ","))
			if err == errIgnored {
				continue
			}
			if err != nil {
				skipped++
				continue
			}
			readings = append(readings, rd)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	fixes := make([]models.Fix, len(readings))
	for i, rd := range readings {
		fixes[i] = rd.toFix(meta)
	}
	return &FileResult{Name: name, Fixes: fixes, Skipped: skipped}, nil
}
