package kml

import (
	"fmt"
	"image/color"

	"github.com/jengzang/trackmap-go/internal/models"
	gokml "github.com/twpayne/go-kml/v3"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// MapDocument draws movement lines, disruptions, parking stops and kilometer posts
func (g *Generator) MapDocument(run *models.RunResult) Document {
	c := g.opts.Colors
	children := []gokml.Element{
		gokml.Name("GPS to KML Map"),
		gokml.Description("Draws lines on the map. File type " + g.opts.FileType),
		g.lineStyle(models.StyleRoad, c.Road),
		g.lineStyle(models.StyleDisrupted, c.Disrupted),
		g.iconStyle(styleStart, IconStart, c.Start, 1.5),
		g.iconStyle(styleEnd, IconEnd, c.End, 1.5),
		g.iconStyle(styleParking, IconParking, c.Parking, 1.5),
		g.iconStyle(styleDirection, IconDirection, c.SpeedDirection, g.opts.DirectionScale),
	}
	children = append(children, monthFolders(run.Days, g.mapDay)...)
	return gokml.KML(gokml.Document(children...))
}

func (g *Generator) mapDay(day models.DayResult) gokml.Element {
	children := []gokml.Element{gokml.Name(day.Day.Name)}
	fixes := day.Day.Fixes
	if len(fixes) == 0 {
		return gokml.Folder(children...)
	}

	children = append(children, g.iconPlacemark("Start", styleStart, fixes[0]))

	for _, e := range day.Events {
		switch e.Kind {
		case models.EventMovement:
			children = append(children, g.segmentPlacemark(*e.Segment))
		case models.EventDisruption:
			children = append(children, g.disruptionPlacemark(*e.Disruption))
		case models.EventStop:
			children = append(children, g.parkingPlacemark(*e.Stop))
		}
	}

	children = append(children, g.iconPlacemark("End", styleEnd, fixes[len(fixes)-1]))

	if len(day.KmPosts) > 0 {
		posts := []gokml.Element{gokml.Name("Kilometer posts"), g.visibility()}
		for _, post := range day.KmPosts {
			posts = append(posts, g.kmPostPlacemark(post))
		}
		children = append(children, gokml.Folder(posts...))
	}
	return gokml.Folder(children...)
}

func (g *Generator) disruptionPlacemark(d models.DisruptionEvent) gokml.Element {
	from, to := d.From, d.To
	return gokml.Placemark(
		gokml.Name("Disruption"),
		gokml.Description(fmt.Sprintf(
			"<b>Start:</b> %s<br><b>End:</b> %s<br><b>Start Coordinates:</b> %f, %f<br><b>End Coordinates:</b> %f, %f",
			g.localTime(from.Timestamp), g.localTime(to.Timestamp),
			from.Latitude, from.Longitude,
			to.Latitude, to.Longitude)),
		gokml.StyleURL("#"+models.StyleDisrupted),
		gokml.LineString(gokml.Coordinates(
			pointCoordinate(from.Latitude, from.Longitude),
			pointCoordinate(to.Latitude, to.Longitude),
		)),
	)
}

func (g *Generator) parkingPlacemark(s models.StopEvent) gokml.Element {
	return gokml.Placemark(
		gokml.Name("Parking"),
		gokml.Description(fmt.Sprintf("Start: <b>%s</b><br>End: <b>%s</b><br>Length: <b>%s</b>",
			g.localTime(s.From.Timestamp), g.localTime(s.To.Timestamp), Clock(s.Duration()))),
		gokml.StyleURL("#"+styleParking),
		gokml.Point(gokml.Coordinates(pointCoordinate(s.From.Latitude, s.From.Longitude))),
	)
}

func (g *Generator) kmPostPlacemark(post models.KmPost) gokml.Element {
	return gokml.Placemark(
		gokml.Name(fmt.Sprintf("%.2f km.", post.CumulativeDistanceKm)),
		g.visibility(),
		gokml.Description(fmt.Sprintf(
			"The direction on the <b>%.2f</b> kilometer post is <b>%.3f</b> degrees. Local time: <b>%s</b>",
			post.CumulativeDistanceKm, post.HeadingDegrees, g.localTime(post.Fix.Timestamp))),
		g.headingStyle(roundTo(post.HeadingDegrees, 3), 1, white),
		gokml.Point(gokml.Coordinates(pointCoordinate(post.Fix.Latitude, post.Fix.Longitude))),
	)
}
