package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyNormalizesOverrides(t *testing.T) {
	o, err := parseFlags([]string{"-map", "Both", "-type", "GPX", "-dir", "tracks", "-kmz"}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg := config.Defaults()
	o.apply(cfg)

	assert.Equal(t, config.MapTypeBoth, cfg.MapType)
	assert.Equal(t, config.FileTypeGpx, cfg.FileType)
	assert.Equal(t, "tracks", cfg.DataDir)
	assert.True(t, cfg.Kmz)
	assert.NoError(t, cfg.Validate())
}

func TestApplyKeepsUnsetSettings(t *testing.T) {
	o, err := parseFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)

	cfg := config.Defaults()
	o.apply(cfg)
	assert.Equal(t, config.Defaults().MapType, cfg.MapType)
	assert.Equal(t, config.Defaults().FileType, cfg.FileType)
}

func TestRunRejectsInvalidSettings(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-map", "atlas"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Invalid settings")

	assert.Equal(t, 2, run([]string{"-unknown"}, &stdout, &stderr))
}

func TestRunWritesMaps(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	require.NoError(t, os.Mkdir(data, 0o755))

	var lines strings.Builder
	for i := range 20 {
		fmt.Fprintf(&lines, "2024:06:01 08:00:%02d,%.6f,24.5,95\n", i, 58.6+float64(i)*0.00025)
	}
	require.NoError(t, os.WriteFile(filepath.Join(data, "2024-06-01_Tallinn.0805"), []byte(lines.String()), 0o644))

	mapFile := filepath.Join(dir, "map.kml")
	speedFile := filepath.Join(dir, "speed.kml")
	t.Setenv("MAP_FILE", mapFile)
	t.Setenv("SPEED_FILE", speedFile)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-dir", data, "-type", "0805", "-map", "Both"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Map Type:            both")
	assert.Contains(t, out, "Total Fixes:         20")
	assert.Contains(t, out, "Created file "+mapFile)
	assert.Contains(t, out, "Created file "+speedFile)
	assert.FileExists(t, mapFile)
	assert.FileExists(t, speedFile)
}

func TestRunFailsWithoutInput(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MAP_FILE", filepath.Join(dir, "map.kml"))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"-dir", dir, "-type", "csv"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Error")
}
