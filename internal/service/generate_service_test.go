package service

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/jengzang/trackmap-go/internal/analysis/movement"
	_ "github.com/jengzang/trackmap-go/internal/analysis/speed"
	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/database"
	"github.com/jengzang/trackmap-go/internal/ingest"
	"github.com/jengzang/trackmap-go/internal/metrics"
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cameraLines writes n fixes one second and about 28 m apart, moving north at 100 km/h
func cameraLines(date string, hour, n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "%s %02d:00:%02d,%.6f,24.5,100\n",
			strings.ReplaceAll(date, "-", ":"), hour, i, 58.6+float64(i)*0.00025)
	}
	return b.String()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	require.NoError(t, os.Mkdir(data, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(data, "2024-06-01_Tallinn-Tartu.0805"), []byte(cameraLines("2024-06-01", 8, 40)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "2024-06-01_Tartu-Parnu.0805"), []byte(cameraLines("2024-06-01", 12, 40)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "2024-07-02.0805"), []byte(cameraLines("2024-07-02", 9, 20)+"broken\n"), 0o644))

	cfg := config.Defaults()
	cfg.DataDir = data
	cfg.FileType = config.FileType0805
	cfg.MapType = config.MapTypeBoth
	cfg.MapFile = filepath.Join(dir, "map.kml")
	cfg.SpeedFile = filepath.Join(dir, "speed.kml")
	cfg.KmzFile = filepath.Join(dir, "out.kmz")
	cfg.KmSign = true
	cfg.KmSteps = 0.5
	cfg.SpeedMarkers = true
	cfg.Workers = 2
	cfg.IconDir = ""
	return cfg
}

func TestGenerateWritesKMLAndStoresRun(t *testing.T) {
	cfg := testConfig(t)

	db, err := database.Open(filepath.Join(t.TempDir(), "trackmap.db"))
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewRunRepository(db)
	collector := metrics.NewCollector()

	svc, err := NewGenerateService(cfg, repo, collector)
	require.NoError(t, err)

	report, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Run.FileCount)
	assert.Equal(t, 100, report.Run.FixCount)
	assert.Equal(t, 1, report.Run.SkippedCount)
	assert.Equal(t, []string{cfg.MapFile, cfg.SpeedFile}, report.Run.Outputs)

	// the two June files share a merged name; the 4 hour gap is a stop
	require.Len(t, report.Result.Days, 2)
	june := report.Result.Days[0]
	assert.Equal(t, "2024-06-01_Tallinn-Tartu-Parnu", june.Day.Key)
	assert.Equal(t, "2024-06", june.Day.Month)
	assert.Equal(t, 1, june.CountEvents(models.EventStop))
	assert.NotEmpty(t, june.KmPosts)
	assert.Len(t, june.SpeedRuns, 1)

	mapKML, err := os.ReadFile(cfg.MapFile)
	require.NoError(t, err)
	assert.Contains(t, string(mapKML), "<name>2024-06</name>")
	assert.Contains(t, string(mapKML), "Parking")

	speedKML, err := os.ReadFile(cfg.SpeedFile)
	require.NoError(t, err)
	assert.Contains(t, string(speedKML), "Speed Markers")

	latest, err := NewRunService(repo).LatestRun()
	require.NoError(t, err)
	assert.Equal(t, report.Run.ID, latest.ID)

	days, total, err := NewRunService(repo).LatestDays(models.DayFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "2024-06-01_Tallinn-Tartu-Parnu", days[0].Key)
	assert.Equal(t, "2024-06-01_Tallinn-Tartu", days[0].Name)

	assert.Equal(t, float64(100), testutil.ToFloat64(collector.FixesProcessed))
}

func TestGenerateKMZ(t *testing.T) {
	cfg := testConfig(t)
	cfg.Kmz = true
	cfg.MapType = config.MapTypeMap
	cfg.MapFile = "CameraMap.kml"

	svc, err := NewGenerateService(cfg, nil, nil)
	require.NoError(t, err)

	report, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.KmzFile}, report.Run.Outputs)

	zr, err := zip.OpenReader(cfg.KmzFile)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"doc.kml", "kml/CameraMap.kml"}, names)
}

func TestGenerateErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.FileType = config.FileTypeKml
	_, err := NewGenerateService(cfg, nil, nil)
	assert.True(t, errors.Is(err, ingest.ErrUnsupportedFormat))

	cfg = testConfig(t)
	cfg.FileType = config.FileTypeCsv
	svc, err := NewGenerateService(cfg, nil, nil)
	require.NoError(t, err)
	_, err = svc.Generate(context.Background())
	assert.True(t, errors.Is(err, ingest.ErrNoFiles))
}

func TestGenerateRejectsConcurrentRuns(t *testing.T) {
	svc, err := NewGenerateService(testConfig(t), nil, nil)
	require.NoError(t, err)

	svc.mu.Lock()
	_, err = svc.Generate(context.Background())
	svc.mu.Unlock()
	assert.True(t, errors.Is(err, ErrRunInProgress))
}
