package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/database"
	"github.com/jengzang/trackmap-go/internal/repository"
	"github.com/jengzang/trackmap-go/internal/service"
	"github.com/jengzang/trackmap-go/internal/track"

	_ "github.com/jengzang/trackmap-go/internal/analysis/movement"
	_ "github.com/jengzang/trackmap-go/internal/analysis/speed"
)

// options are the command line overrides of the environment settings
type options struct {
	dir      string
	fileType string
	mapType  string
	kmz      bool
	store    bool
	asJSON   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stdout io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("trackmap", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.StringVar(&o.dir, "dir", "", "Data folder (overrides DATA_DIR)")
	fs.StringVar(&o.fileType, "type", "", "Input file type: txt, csv, gpx, 0805, canyon, hero8 (overrides FILE_TYPE)")
	fs.StringVar(&o.mapType, "map", "", "Map type: map, speed, both (overrides MAP_TYPE)")
	fs.BoolVar(&o.kmz, "kmz", false, "Pack the output into one KMZ file")
	fs.BoolVar(&o.store, "store", false, "Save the run into the database at DB_PATH")
	fs.BoolVar(&o.asJSON, "json", false, "Print the run summary as JSON")

	fs.Usage = func() {
		fmt.Fprintf(stdout, "trackmap - draw GPS recordings as KML maps\n\n")
		fmt.Fprintf(stdout, "usage: trackmap [options]\n\n")
		fmt.Fprintf(stdout, "Settings are read from the environment and .env, flags override them.\n\n")
		fmt.Fprintf(stdout, "options:\n")
		fs.PrintDefaults()
	}

	err := fs.Parse(args)
	return o, err
}

// apply overrides the settings, normalized the same way as their environment variables
func (o options) apply(cfg *config.Config) {
	if o.dir != "" {
		cfg.DataDir = o.dir
	}
	if o.fileType != "" {
		cfg.FileType = "." + strings.TrimPrefix(strings.ToLower(o.fileType), ".")
	}
	if o.mapType != "" {
		cfg.MapType = strings.ToLower(o.mapType)
	}
	if o.kmz {
		cfg.Kmz = true
	}
}

// run executes one generation and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stdout)
	if err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 2
	}
	o.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid settings: %v\n", err)
		return 2
	}

	var repo *repository.RunRepository
	if o.store {
		if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
			fmt.Fprintf(stderr, "Error opening database: %v\n", err)
			return 1
		}
		defer database.Close()
		repo = repository.NewRunRepository(database.GetDB())
	}

	generator, err := service.NewGenerateService(cfg, repo, nil)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	printSettings(stdout, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := generator.Generate(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if o.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.Run); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	printReport(stdout, report)
	return 0
}

func printSettings(w io.Writer, cfg *config.Config) {
	folder, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		folder = cfg.DataDir
	}
	fmt.Fprintln(w, "Current Settings:")
	fmt.Fprintf(w, "%-20s %s\n", "File Type:", cfg.FileType)
	fmt.Fprintf(w, "%-20s %s\n", "Folder (Full Path):", folder)
	fmt.Fprintf(w, "%-20s %s\n", "Map Type:", cfg.MapType)
}

func printReport(w io.Writer, report *service.Report) {
	fmt.Fprintf(w, "%-20s %d\n", "Total Files:", len(report.Files))
	for _, f := range report.Files {
		if f.Skipped > 0 {
			fmt.Fprintf(w, "  %s: %d fixes, %d skipped\n", f.Name, len(f.Fixes), f.Skipped)
		}
	}
	fmt.Fprintf(w, "%-20s %d\n", "Total Fixes:", report.Run.FixCount)
	fmt.Fprintf(w, "%-20s %d\n", "Days:", len(report.Result.Days))

	for _, d := range report.Result.Days {
		var km float64
		for _, s := range d.Segments() {
			km += track.PathLengthKm(s.Points)
		}
		fmt.Fprintf(w, "  %-40s %8.2f km  %d posts  %d speed runs\n", d.Day.Name, km, len(d.KmPosts), len(d.SpeedRuns))
	}

	for _, out := range report.Run.Outputs {
		fmt.Fprintln(w, "Created file "+out)
	}
}
