package movement

import (
	"github.com/jengzang/trackmap-go/internal/analysis"
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/track"
)

// Name is the registry name of the movement analyzer
const Name = "movement"

// Analyzer classifies each day into movement lines, disruptions and stops,
// and places kilometer posts along movement
type Analyzer struct {
	classifier *track.Classifier
}

// NewAnalyzer creates a new movement analyzer
func NewAnalyzer(settings analysis.Settings) analysis.Analyzer {
	return &Analyzer{classifier: track.NewClassifier(settings.Classifier)}
}

// GetName returns the analyzer name
func (a *Analyzer) GetName() string {
	return Name
}

// AnalyzeDay fills the events and kilometer posts of the day
func (a *Analyzer) AnalyzeDay(day models.Day, result *models.DayResult) {
	c := a.classifier.Classify(day.Fixes)
	result.Events = c.Events
	result.KmPosts = c.KmPosts
}

// Register the analyzer
func init() {
	analysis.RegisterAnalyzer(Name, NewAnalyzer)
}
