package kml

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/track"
	gokml "github.com/twpayne/go-kml/v3"
)

// Icon image names, looked up in the icon folder
const (
	IconStart     = "a.png"
	IconEnd       = "b.png"
	IconParking   = "parking.png"
	IconDirection = "direction.png"
)

// Icons lists every image the documents reference
var Icons = []string{IconStart, IconEnd, IconParking, IconDirection}

// Icon style IDs
const (
	styleStart          = "iconStyleStart"
	styleEnd            = "iconStyleEnd"
	styleParking        = "iconStyleParking"
	styleDirection      = "iconStyleDirection"
	styleSpeedStart     = "iconStyleSpeedStart"
	styleSpeedEnd       = "iconStyleSpeedEnd"
	styleSpeedDirection = "iconStyleSpeedDirection"
)

// Options control document appearance
type Options struct {
	FileType         string
	SpeedKmh         float64
	LineWidth        int
	DirectionScale   float64
	KmSignVisibility bool
	TimeZone         *time.Location
	Colors           config.Colors
	InKMZ            bool // icons are referenced from ../files/ inside an archive
}

// OptionsFromConfig picks the output settings out of the application config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		FileType:         cfg.FileType,
		SpeedKmh:         cfg.SpeedMap,
		LineWidth:        cfg.LineWidth,
		DirectionScale:   cfg.DirectionScale,
		KmSignVisibility: cfg.KmSignVisibility,
		TimeZone:         cfg.TimeZone,
		Colors:           cfg.Colors,
		InKMZ:            cfg.Kmz,
	}
}

// Generator turns run results into KML documents
type Generator struct {
	opts Options
}

// NewGenerator creates a generator
func NewGenerator(opts Options) *Generator {
	if opts.TimeZone == nil {
		opts.TimeZone = time.UTC
	}
	if opts.DirectionScale == 0 {
		opts.DirectionScale = 1
	}
	return &Generator{opts: opts}
}

func (g *Generator) iconHref(name string) string {
	if g.opts.InKMZ {
		return "../files/" + name
	}
	return "files/" + name
}

func (g *Generator) lineStyle(id string, c config.RGB) gokml.Element {
	return gokml.SharedStyle(id,
		gokml.LineStyle(
			gokml.Color(Color(c, 100)),
			gokml.Width(float64(g.opts.LineWidth)),
		),
	)
}

func (g *Generator) iconStyle(id, icon string, c config.RGB, scale float64) gokml.Element {
	return gokml.SharedStyle(id,
		gokml.IconStyle(
			gokml.Color(Color(c, 100)),
			gokml.Scale(scale),
			gokml.Icon(gokml.Href(g.iconHref(icon))),
		),
	)
}

// headingStyle is an inline direction icon rotated to heading
func (g *Generator) headingStyle(heading, scale float64, c color.Color) gokml.Element {
	return gokml.Style(
		gokml.IconStyle(
			gokml.Color(c),
			gokml.Scale(scale),
			gokml.Heading(heading),
			gokml.Icon(gokml.Href(g.iconHref(IconDirection))),
		),
	)
}

func (g *Generator) localTime(t time.Time) string {
	return LocalTime(t, g.opts.TimeZone)
}

func (g *Generator) visibility() gokml.Element {
	return gokml.Visibility(g.opts.KmSignVisibility)
}

// monthFolders nests day folders under their month in the order days arrive
func monthFolders(days []models.DayResult, dayFolder func(models.DayResult) gokml.Element) []gokml.Element {
	var months []string
	children := make(map[string][]gokml.Element)
	for _, day := range days {
		month := day.Day.Month
		if _, ok := children[month]; !ok {
			months = append(months, month)
			children[month] = []gokml.Element{gokml.Name(month)}
		}
		children[month] = append(children[month], dayFolder(day))
	}

	folders := make([]gokml.Element, len(months))
	for i, month := range months {
		folders[i] = gokml.Folder(children[month]...)
	}
	return folders
}

func (g *Generator) iconPlacemark(name, styleID string, fix models.Fix) gokml.Element {
	return gokml.Placemark(
		gokml.Name(name),
		gokml.Description(name+" "+g.localTime(fix.Timestamp)),
		gokml.StyleURL("#"+styleID),
		gokml.Point(gokml.Coordinates(pointCoordinate(fix.Latitude, fix.Longitude))),
	)
}

// segmentPlacemark draws a segment as a line, or as a point when it has a single fix
func (g *Generator) segmentPlacemark(s models.Segment) gokml.Element {
	first, last := s.First(), s.Last()
	description := fmt.Sprintf("<b>Start:</b> %s<br>"+
		"<b>End:</b> %s<br>"+
		"<b>Length:</b> %s<br>"+
		"<b>Start Coordinates:</b> %f, %f<br>"+
		"<b>End Coordinates:</b> %f, %f<br>"+
		"<b>Distance:</b> %.2f km",
		g.localTime(first.Timestamp), g.localTime(last.Timestamp), Clock(s.Duration()),
		first.Latitude, first.Longitude,
		last.Latitude, last.Longitude,
		track.PathLengthKm(s.Points))

	var geometry gokml.Element
	if s.IsPoint() {
		geometry = gokml.Point(gokml.Coordinates(pointCoordinate(first.Latitude, first.Longitude)))
	} else {
		geometry = gokml.LineString(gokml.Coordinates(lineCoordinates(s.Points)...))
	}

	return gokml.Placemark(
		gokml.Name(s.Name),
		gokml.Description(description),
		gokml.StyleURL("#"+s.StyleID),
		geometry,
	)
}

// roundTo keeps the given number of decimals of a heading
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
