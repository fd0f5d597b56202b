package track

import (
	"errors"
	"testing"
	"time"

	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameView(t *testing.T) {
	fixes := []models.Fix{
		fixAt(58.00, 24.00, 0, 0),
		fixAt(58.36, 24.10, time.Minute, 0),
		fixAt(58.18, 24.20, 2*time.Minute, 0),
	}

	view, err := FrameView(fixes)

	require.NoError(t, err)
	assert.InDelta(t, 58.18, view.CenterLatitude, 1e-9)
	assert.InDelta(t, 24.10, view.CenterLongitude, 1e-9)
	assert.InDelta(t, 40075.0, view.AltitudeMeters, 1e-6)
	assert.Equal(t, view.AltitudeMeters, view.RangeMeters)
}

func TestFrameViewUsesLargerSpan(t *testing.T) {
	fixes := []models.Fix{
		fixAt(-10.0, -20.0, 0, 0),
		fixAt(-10.5, -23.6, time.Minute, 0),
	}

	view, err := FrameView(fixes)

	require.NoError(t, err)
	assert.InDelta(t, 3.6/360*40075000, view.AltitudeMeters, 1e-6)
}

func TestFrameViewSinglePoint(t *testing.T) {
	view, err := FrameView([]models.Fix{fixAt(baseLat, baseLon, 0, 0)})

	require.NoError(t, err)
	assert.Equal(t, baseLat, view.CenterLatitude)
	assert.Equal(t, 0.0, view.AltitudeMeters)
}

func TestFrameViewEmpty(t *testing.T) {
	_, err := FrameView(nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateOrder(t *testing.T) {
	fixes := straightLine(4, 0.1)
	assert.NoError(t, ValidateOrder(fixes))
	assert.NoError(t, ValidateOrder(nil))

	// Equal timestamps are fine
	fixes[2].Timestamp = fixes[1].Timestamp
	assert.NoError(t, ValidateOrder(fixes))

	fixes[3].Timestamp = fixes[0].Timestamp.Add(-time.Second)
	err := ValidateOrder(fixes)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnorderedInput))

	var orderErr *OrderError
	require.True(t, errors.As(err, &orderErr))
	assert.Equal(t, 3, orderErr.Index)
}
