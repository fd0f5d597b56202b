package track

import (
	"fmt"

	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/spatial"
)

// FrameView reduces all fixes of a run to a camera center and zoom.
// The center is the plain arithmetic mean of latitudes and longitudes.
func FrameView(fixes []models.Fix) (models.ViewFrame, error) {
	if len(fixes) == 0 {
		return models.ViewFrame{}, fmt.Errorf("failed to frame view of empty point set: %w", ErrInvalidInput)
	}

	totalLat, totalLon := 0.0, 0.0
	bounds := spatial.EmptyBounds()
	for _, f := range fixes {
		totalLat += f.Latitude
		totalLon += f.Longitude
		bounds = bounds.Add(f.Latitude, f.Longitude)
	}

	n := float64(len(fixes))
	altitude := bounds.MaxSpan() / 360 * spatial.EarthCircumferenceMeters

	return models.ViewFrame{
		CenterLatitude:  totalLat / n,
		CenterLongitude: totalLon / n,
		AltitudeMeters:  altitude,
		RangeMeters:     altitude,
	}, nil
}
