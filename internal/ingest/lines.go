package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/models"
)

const (
	knotsToKmh = 1.852
	msToKmh    = 3.6

	dateTimeLayout = "2006-01-02 15:04:05"
	csvLayout      = "2006/01/02 15:04:05.00"
)

// errIgnored marks a line that is well formed but carries no fix
var errIgnored = errors.New("line ignored")

// reading is a position parsed from one input line
type reading struct {
	lat, lon  float64
	timestamp time.Time
	speedKmh  float64
}

// lineParser turns the comma-separated fields of one line into a reading
type lineParser func(parts []string) (reading, error)

func lineParserFor(opts Options) (lineParser, error) {
	switch opts.FileType {
	case config.FileTypeTxt:
		return func(parts []string) (reading, error) {
			return parseTxtLine(parts, opts.OldCamera)
		}, nil
	case config.FileTypeCsv:
		return func(parts []string) (reading, error) {
			return parseCsvLine(parts, opts.SpeedGPS)
		}, nil
	case config.FileType0805, config.FileTypeCanyon:
		return func(parts []string) (reading, error) {
			return parseCameraLine(parts, 1)
		}, nil
	case config.FileTypeHero8:
		return func(parts []string) (reading, error) {
			return parseCameraLine(parts, msToKmh)
		}, nil
	}
	return nil, fmt.Errorf("no line reader for %q: %w", opts.FileType, ErrUnsupportedFormat)
}

// parseTxtLine reads a dashcam record, timestamps are UTC:
//
//	A,140222,140602.208,+5836.7156,N,+02430.5152,E,11.20,-02.45,-09.19,-78.40;  old camera
//	A,130623,161726.000,5836.8005,N,2430.4872,E,0,+00.00,+00.00,+00.00;        new camera
func parseTxtLine(parts []string, oldCamera bool) (reading, error) {
	if !strings.EqualFold(parts[0], "A") {
		return reading{}, errIgnored
	}
	if len(parts) < 8 || len(parts[1]) < 6 || len(parts[2]) < 6 {
		return reading{}, fmt.Errorf("short txt record")
	}

	d, t := parts[1], parts[2]
	datetime := fmt.Sprintf("20%s-%s-%s %s:%s:%s", d[4:6], d[2:4], d[0:2], t[0:2], t[2:4], t[4:6])
	ts, err := time.ParseInLocation(dateTimeLayout, datetime, time.UTC)
	if err != nil {
		return reading{}, fmt.Errorf("invalid datetime %q: %w", datetime, err)
	}

	// Old camera pads with a sign: +5834.7842 is 58° 34.7842'
	latDeg, lonDeg := 2, 2
	if oldCamera {
		latDeg, lonDeg = 3, 4
	}
	lat, err := parseDegreesMinutes(parts[3], latDeg)
	if err != nil {
		return reading{}, err
	}
	lon, err := parseDegreesMinutes(parts[5], lonDeg)
	if err != nil {
		return reading{}, err
	}

	knots, err := strconv.ParseFloat(strings.TrimSpace(parts[7]), 64)
	if err != nil {
		return reading{}, fmt.Errorf("invalid speed %q: %w", parts[7], err)
	}

	return reading{lat: lat, lon: lon, timestamp: ts, speedKmh: knots * knotsToKmh}, nil
}

func parseDegreesMinutes(value string, degreeDigits int) (float64, error) {
	if len(value) <= degreeDigits {
		return 0, fmt.Errorf("invalid coordinate %q", value)
	}
	degrees, err := strconv.ParseFloat(value[:degreeDigits], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q: %w", value, err)
	}
	minutes, err := strconv.ParseFloat(value[degreeDigits:], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q: %w", value, err)
	}
	return degrees + minutes/60, nil
}

// parseCsvLine reads a CanWay export row; columns 1 and 2 hold the UTC date and time:
//
//	1,2020/08/13,04:59:34.00,2020/08/13,07:59:34.00,58.612821,N,24.508767,E,18.4,0.0
func parseCsvLine(parts []string, minSpeed float64) (reading, error) {
	if len(parts) < 11 {
		return reading{}, fmt.Errorf("short csv record")
	}

	speed, err := strconv.ParseFloat(strings.TrimSpace(parts[10]), 64)
	if err != nil {
		return reading{}, fmt.Errorf("invalid speed %q: %w", parts[10], err)
	}
	if speed < minSpeed {
		return reading{}, errIgnored
	}

	ts, err := time.ParseInLocation(csvLayout, parts[1]+" "+parts[2], time.UTC)
	if err != nil {
		return reading{}, fmt.Errorf("invalid datetime: %w", err)
	}
	lat, err := strconv.ParseFloat(parts[5], 64)
	if err != nil {
		return reading{}, fmt.Errorf("invalid latitude %q: %w", parts[5], err)
	}
	lon, err := strconv.ParseFloat(parts[7], 64)
	if err != nil {
		return reading{}, fmt.Errorf("invalid longitude %q: %w", parts[7], err)
	}

	return reading{lat: lat, lon: lon, timestamp: ts, speedKmh: speed}, nil
}

// parseCameraLine reads an exiftool dump line "date time,lat,lon,speed":
//
//	2023:06:13 16:17:26Z,58.6133423333333,24.5081206666667,0      .0805, km/h
//	2023:06:11 17:54:37.215,58.6112888,24.4942199,4.867            .hero8, m/s
func parseCameraLine(parts []string, speedFactor float64) (reading, error) {
	if len(parts) < 4 {
		return reading{}, fmt.Errorf("short camera record")
	}

	d, t, ok := strings.Cut(parts[0], " ")
	if !ok || len(t) < 8 {
		return reading{}, fmt.Errorf("invalid datetime %q", parts[0])
	}
	datetime := strings.ReplaceAll(d, ":", "-") + " " + t[:8]
	ts, err := time.ParseInLocation(dateTimeLayout, datetime, time.UTC)
	if err != nil {
		return reading{}, fmt.Errorf("invalid datetime %q: %w", datetime, err)
	}

	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return reading{}, fmt.Errorf("invalid latitude %q: %w", parts[1], err)
	}
	lon, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return reading{}, fmt.Errorf("invalid longitude %q: %w", parts[2], err)
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	if err != nil {
		return reading{}, fmt.Errorf("invalid speed %q: %w", parts[3], err)
	}

	return reading{lat: lat, lon: lon, timestamp: ts, speedKmh: speed * speedFactor}, nil
}

// toFix attaches the file name tags to a reading
func (r reading) toFix(meta FileMeta) models.Fix {
	return models.Fix{
		Latitude:    r.lat,
		Longitude:   r.lon,
		Timestamp:   r.timestamp,
		SpeedKmh:    r.speedKmh,
		DayKey:      meta.Date,
		Explanation: meta.Explanation,
		Description: meta.Description,
		GroupName:   meta.GroupName(),
	}
}
