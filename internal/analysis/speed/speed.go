package speed

import (
	"github.com/jengzang/trackmap-go/internal/analysis"
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/track"
)

// Name is the registry name of the speed analyzer
const Name = "speed"

// Analyzer extracts runs where speed stays at or above the threshold
type Analyzer struct {
	cfg track.SpeedConfig
}

// NewAnalyzer creates a new speed analyzer
func NewAnalyzer(settings analysis.Settings) analysis.Analyzer {
	return &Analyzer{cfg: settings.Speed}
}

// GetName returns the analyzer name
func (a *Analyzer) GetName() string {
	return Name
}

// AnalyzeDay fills the speed runs of the day
func (a *Analyzer) AnalyzeDay(day models.Day, result *models.DayResult) {
	result.SpeedRuns = track.ExtractSpeedRuns(day.Fixes, a.cfg)
}

func init() {
	analysis.RegisterAnalyzer(Name, NewAnalyzer)
}
