package track

// KmPostCounter tracks cumulative movement distance and the kilometer-post
// boundaries it has crossed. Boundaries are n*step for n = 1, 2, ... and a
// boundary counts as crossed once the total reaches it, within boundaryTolerance
// so that sums of fractional steps like 10 x 0.1 still reach 1.0.
type KmPostCounter struct {
	step    float64
	crossed int
	total   float64
}

const boundaryTolerance = 1e-9

// NewKmPostCounter creates a counter. A step of zero or less never crosses a boundary.
func NewKmPostCounter(step float64) KmPostCounter {
	return KmPostCounter{step: step}
}

// Total returns the accumulated distance in kilometers
func (k KmPostCounter) Total() float64 {
	return k.total
}

// NextBoundary returns the next boundary to be crossed, or 0 when disabled
func (k KmPostCounter) NextBoundary() float64 {
	if k.step <= 0 {
		return 0
	}
	return float64(k.crossed+1) * k.step
}

// Advance adds distance and returns the updated counter with every boundary crossed by this step
func (k KmPostCounter) Advance(distanceKm float64) (KmPostCounter, []float64) {
	if distanceKm > 0 {
		k.total += distanceKm
	}
	if k.step <= 0 {
		return k, nil
	}

	var crossed []float64
	for {
		boundary := float64(k.crossed+1) * k.step
		if k.total+boundaryTolerance < boundary {
			break
		}
		crossed = append(crossed, boundary)
		k.crossed++
	}
	return k, crossed
}
