package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Input file types
const (
	FileTypeTxt    = ".txt"
	FileTypeCsv    = ".csv"
	FileType0805   = ".0805"
	FileTypeHero8  = ".hero8"
	FileTypeCanyon = ".canyon"
	FileTypeGpx    = ".gpx"
	FileTypeKml    = ".kml"
	FileTypeLog    = ".log"
)

// Map types
const (
	MapTypeMap   = "map"
	MapTypeSpeed = "speed"
	MapTypeBoth  = "both"
)

var (
	allowedFileTypes = []string{FileTypeTxt, FileTypeCsv, FileType0805, FileTypeHero8, FileTypeCanyon, FileTypeGpx, FileTypeKml, FileTypeLog}
	allowedMapTypes  = []string{MapTypeMap, MapTypeSpeed, MapTypeBoth}
)

// RGB is a color with 0-255 components
type RGB struct {
	R, G, B uint8
}

// Colors used by the map and speed documents
type Colors struct {
	Road           RGB
	Speed          RGB
	Start          RGB
	End            RGB
	Disrupted      RGB
	Parking        RGB
	SpeedStart     RGB
	SpeedEnd       RGB
	SpeedDirection RGB
}

// Config 应用配置
type Config struct {
	// Server
	Port      string
	DBPath    string
	JWTSecret string

	// Input
	DataDir   string
	FileType  string
	OldCamera bool
	SpeedGPS  float64 // CSV rows slower than this are dropped
	FileMerge bool    // files with the same date end up in one day

	// Output
	MapType        string
	MapFile        string
	SpeedFile      string
	KmzFile        string
	Kmz            bool
	IconDir        string
	LineWidth      int
	DirectionScale float64
	TimeZone       *time.Location
	Colors         Colors

	// Classification
	StopMinutes      int
	MaxDistanceKm    float64
	KmSteps          float64
	KmSign           bool
	KmSignVisibility bool
	SpeedMap         float64
	SpeedMarkers     bool

	// Processing
	Workers         int
	StrictOrdering  bool
	GenerateOnStart bool
}

// StopThreshold returns the parking gap as a duration
func (c *Config) StopThreshold() time.Duration {
	return time.Duration(c.StopMinutes) * time.Minute
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Port:      ":8080",
		DBPath:    "./data/trackmap.db",
		JWTSecret: "your-secret-key-change-in-production",

		DataDir:   "data_files",
		FileType:  FileTypeTxt,
		OldCamera: true,
		SpeedGPS:  5.0,
		FileMerge: false,

		MapType:        MapTypeMap,
		MapFile:        "CameraMap.kml",
		SpeedFile:      "CameraSpeed.kml",
		KmzFile:        "CameraKmz.kmz",
		Kmz:            false,
		IconDir:        "files",
		LineWidth:      3,
		DirectionScale: 1.0,
		TimeZone:       time.UTC,
		Colors: Colors{
			Road:           RGB{0, 0, 255},
			Speed:          RGB{255, 0, 0},
			Start:          RGB{0, 255, 75},
			End:            RGB{255, 165, 0},
			Disrupted:      RGB{255, 0, 0},
			Parking:        RGB{255, 255, 255},
			SpeedStart:     RGB{35, 139, 35},
			SpeedEnd:       RGB{220, 20, 60},
			SpeedDirection: RGB{255, 255, 255},
		},

		StopMinutes:      5,
		MaxDistanceKm:    2.0,
		KmSteps:          10.0,
		KmSign:           false,
		KmSignVisibility: false,
		SpeedMap:         90.0,
		SpeedMarkers:     false,

		Workers:         runtime.NumCPU(),
		StrictOrdering:  true,
		GenerateOnStart: false,
	}
}

// Load 加载配置
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function.
// Out-of-range numbers fall back to their defaults with a warning; unknown
// file or map types and bad time zones are errors.
func FromEnv(getenv func(string) string) (*Config, error) {
	def := Defaults()
	cfg := Defaults()
	p := &parser{getenv: getenv}

	cfg.Port = p.str("PORT", def.Port)
	cfg.DBPath = p.str("DB_PATH", def.DBPath)
	cfg.JWTSecret = p.str("JWT_SECRET", def.JWTSecret)

	cfg.DataDir = p.str("DATA_DIR", def.DataDir)
	cfg.FileType = strings.ToLower(p.str("FILE_TYPE", def.FileType))
	cfg.OldCamera = p.boolean("OLD_CAMERA", def.OldCamera)
	cfg.SpeedGPS = p.float("SPEED_GPS", def.SpeedGPS)
	cfg.FileMerge = p.boolean("FILE_MERGE", def.FileMerge)

	cfg.MapType = strings.ToLower(p.str("MAP_TYPE", def.MapType))
	cfg.MapFile = p.str("MAP_FILE", def.MapFile)
	cfg.SpeedFile = p.str("SPEED_FILE", def.SpeedFile)
	cfg.KmzFile = p.str("KMZ_FILE", def.KmzFile)
	cfg.Kmz = p.boolean("KMZ", def.Kmz)
	cfg.IconDir = p.str("ICON_DIR", def.IconDir)
	cfg.LineWidth = p.integer("LINE_WIDTH", def.LineWidth)
	cfg.DirectionScale = p.float("DIRECTION_SCALE", def.DirectionScale)

	cfg.Colors.Road = p.color("COLOR_ROAD", def.Colors.Road)
	cfg.Colors.Speed = p.color("COLOR_SPEED", def.Colors.Speed)
	cfg.Colors.Start = p.color("COLOR_START", def.Colors.Start)
	cfg.Colors.End = p.color("COLOR_END", def.Colors.End)
	cfg.Colors.Disrupted = p.color("COLOR_DISRUPTED", def.Colors.Disrupted)
	cfg.Colors.Parking = p.color("COLOR_PARKING", def.Colors.Parking)
	cfg.Colors.SpeedStart = p.color("COLOR_SPEED_START", def.Colors.SpeedStart)
	cfg.Colors.SpeedEnd = p.color("COLOR_SPEED_END", def.Colors.SpeedEnd)
	cfg.Colors.SpeedDirection = p.color("COLOR_SPEED_DIRECTION", def.Colors.SpeedDirection)

	cfg.StopMinutes = p.integer("STOP_MINUTES", def.StopMinutes)
	cfg.MaxDistanceKm = p.float("MAX_DISTANCE", def.MaxDistanceKm)
	cfg.KmSteps = p.float("KM_STEPS", def.KmSteps)
	cfg.KmSign = p.boolean("KM_SIGN", def.KmSign)
	cfg.KmSignVisibility = p.boolean("KM_SIGN_VISIBILITY", def.KmSignVisibility)
	cfg.SpeedMap = p.float("SPEED_MAP", def.SpeedMap)
	// Speed markers follow the kilometer-post switch unless set on their own
	cfg.SpeedMarkers = p.boolean("SPEED_MARKERS", cfg.KmSign)

	cfg.Workers = p.integer("WORKERS", def.Workers)
	cfg.StrictOrdering = p.boolean("STRICT_ORDERING", def.StrictOrdering)
	cfg.GenerateOnStart = p.boolean("GENERATE_ON_START", def.GenerateOnStart)

	if tz := getenv("TIME_ZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("invalid TIME_ZONE %q: %w", tz, err))
		} else {
			cfg.TimeZone = loc
		}
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unusable settings and resets out-of-range ones to their defaults
func (c *Config) Validate() error {
	def := Defaults()

	if !contains(allowedFileTypes, c.FileType) {
		return fmt.Errorf("invalid file type %q (allowed: %s)", c.FileType, strings.Join(allowedFileTypes, ", "))
	}
	if !contains(allowedMapTypes, c.MapType) {
		return fmt.Errorf("invalid map type %q (allowed: %s)", c.MapType, strings.Join(allowedMapTypes, ", "))
	}

	if c.LineWidth < 1 || c.LineWidth > 10 {
		log.Printf("[Config] Invalid line width %d, using default %d", c.LineWidth, def.LineWidth)
		c.LineWidth = def.LineWidth
	}
	if c.StopMinutes < 1 || c.StopMinutes > 10 {
		log.Printf("[Config] Invalid parking time %d, using default %d", c.StopMinutes, def.StopMinutes)
		c.StopMinutes = def.StopMinutes
	}
	if c.SpeedMap < 0 || c.SpeedMap > 200 {
		log.Printf("[Config] Invalid speed map speed %.1f, using default %.1f", c.SpeedMap, def.SpeedMap)
		c.SpeedMap = def.SpeedMap
	}
	if c.SpeedGPS < 0 || c.SpeedGPS > 10 {
		log.Printf("[Config] Invalid GPS speed %.1f, using default %.1f", c.SpeedGPS, def.SpeedGPS)
		c.SpeedGPS = def.SpeedGPS
	}
	if c.DirectionScale <= 0.1 || c.DirectionScale > 5 {
		log.Printf("[Config] Invalid direction scale %.2f, using default %.2f", c.DirectionScale, def.DirectionScale)
		c.DirectionScale = def.DirectionScale
	}
	if c.KmSteps <= 0 || c.KmSteps > 1000 {
		log.Printf("[Config] Invalid km steps %.3f, using default %.3f", c.KmSteps, def.KmSteps)
		c.KmSteps = def.KmSteps
	}
	if c.MaxDistanceKm <= 0 {
		log.Printf("[Config] Invalid max distance %.3f, using default %.3f", c.MaxDistanceKm, def.MaxDistanceKm)
		c.MaxDistanceKm = def.MaxDistanceKm
	}
	if c.Workers < 1 {
		c.Workers = 1
	}

	if c.MapFile == "" {
		c.MapFile = def.MapFile
	}
	if c.SpeedFile == "" {
		c.SpeedFile = def.SpeedFile
	}
	if c.KmzFile == "" {
		c.KmzFile = def.KmzFile
	}
	if c.TimeZone == nil {
		c.TimeZone = time.UTC
	}
	return nil
}

// Analyzers returns the analyzer names for the configured map type
func (c *Config) Analyzers() []string {
	switch c.MapType {
	case MapTypeSpeed:
		return []string{"speed"}
	case MapTypeBoth:
		return []string{"movement", "speed"}
	default:
		return []string{"movement"}
	}
}

// WantsMap reports whether the movement document is produced
func (c *Config) WantsMap() bool {
	return c.MapType == MapTypeMap || c.MapType == MapTypeBoth
}

// WantsSpeed reports whether the speed document is produced
func (c *Config) WantsSpeed() bool {
	return c.MapType == MapTypeSpeed || c.MapType == MapTypeBoth
}

type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] Invalid %s value %q, using default %d", key, v, def)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[Config] Invalid %s value %q, using default %g", key, v, def)
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[Config] Invalid %s value %q, using default %t", key, v, def)
		return def
	}
	return b
}

// color parses "r,g,b"
func (p *parser) color(key string, def RGB) RGB {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	c, err := ParseRGB(v)
	if err != nil {
		log.Printf("[Config] Invalid %s value %q, using default: %v", key, v, err)
		return def
	}
	return c
}

// ParseRGB parses a "r,g,b" triple of 0-255 components
func ParseRGB(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("expected r,g,b, got %q", s)
	}
	var out [3]uint8
	for i, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid color component %q: %w", part, err)
		}
		out[i] = uint8(n)
	}
	return RGB{R: out[0], G: out[1], B: out[2]}, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
