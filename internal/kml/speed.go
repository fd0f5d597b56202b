package kml

import (
	"fmt"

	"github.com/jengzang/trackmap-go/internal/models"
	gokml "github.com/twpayne/go-kml/v3"
)

// SpeedDocument draws the speed runs of every day with their optional markers
func (g *Generator) SpeedDocument(run *models.RunResult) Document {
	c := g.opts.Colors
	scale := g.opts.DirectionScale
	children := []gokml.Element{
		gokml.Name("GPS to KML Speed"),
		gokml.Description(fmt.Sprintf("This KML shows only the segments where speed is at least %g km/h.", g.opts.SpeedKmh)),
		g.lineStyle(models.StyleSpeed, c.Speed),
		g.iconStyle(styleStart, IconStart, c.Start, 1.5),
		g.iconStyle(styleEnd, IconEnd, c.End, 1.5),
		g.iconStyle(styleSpeedStart, IconStart, c.SpeedStart, scale),
		g.iconStyle(styleSpeedEnd, IconEnd, c.SpeedEnd, scale),
		g.iconStyle(styleSpeedDirection, IconDirection, c.SpeedDirection, scale),
	}
	children = append(children, monthFolders(run.Days, g.speedDay)...)
	return gokml.KML(gokml.Document(children...))
}

func (g *Generator) speedDay(day models.DayResult) gokml.Element {
	children := []gokml.Element{gokml.Name(day.Day.Name)}
	var markers []gokml.Element

	for _, run := range day.SpeedRuns {
		children = append(children, g.segmentPlacemark(run.Segment))
		if m := run.Markers; m != nil {
			markers = append(markers,
				g.markerPlacemark("Speed Start", styleSpeedStart, m.Start),
				g.markerPlacemark("Speed End", styleSpeedEnd, m.End),
				g.directionPlacemark(m.Start, m.HeadingDegrees),
			)
		}
	}

	if len(markers) > 0 {
		folder := append([]gokml.Element{gokml.Name("Speed Markers"), g.visibility()}, markers...)
		children = append(children, gokml.Folder(folder...))
	}
	return gokml.Folder(children...)
}

func (g *Generator) markerPlacemark(name, styleID string, at models.Coordinate) gokml.Element {
	return gokml.Placemark(
		gokml.Name(name),
		g.visibility(),
		gokml.StyleURL("#"+styleID),
		gokml.Point(gokml.Coordinates(pointCoordinate(at.Latitude, at.Longitude))),
	)
}

// directionPlacemark carries an inline style because the heading differs per marker
func (g *Generator) directionPlacemark(at models.Coordinate, heading float64) gokml.Element {
	return gokml.Placemark(
		gokml.Name("Speed Direction"),
		g.visibility(),
		g.headingStyle(roundTo(heading, 1), g.opts.DirectionScale, Color(g.opts.Colors.SpeedDirection, 100)),
		gokml.Point(gokml.Coordinates(pointCoordinate(at.Latitude, at.Longitude))),
	)
}
