package stats

import (
	"math"
	"slices"

	"github.com/jengzang/trackmap-go/internal/models"
)

// SpeedProfile summarizes the recorded speeds of a day
type SpeedProfile struct {
	AvgKmh float64 `json:"avg_kmh"`
	P95Kmh float64 `json:"p95_kmh"`
	MaxKmh float64 `json:"max_kmh"`
}

// Speeds returns the recorded speed of every fix
func Speeds(fixes []models.Fix) []float64 {
	speeds := make([]float64, len(fixes))
	for i, f := range fixes {
		speeds[i] = f.SpeedKmh
	}
	return speeds
}

// Profile computes the speed profile of a list of fixes. Empty input gives a zero profile.
func Profile(fixes []models.Fix) SpeedProfile {
	speeds := Speeds(fixes)
	return SpeedProfile{
		AvgKmh: Mean(speeds),
		P95Kmh: Percentile(speeds, 95),
		MaxKmh: Max(speeds),
	}
}

// Mean calculates the arithmetic mean
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Max returns the maximum value
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Max(values)
}

// Percentile calculates the p-th percentile (0-100)
// Uses linear interpolation between closest ranks
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	q := math.Min(math.Max(p, 0), 100) / 100

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
