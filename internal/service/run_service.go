package service

import (
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/repository"
)

// RunService handles reads of stored runs
type RunService struct {
	repo *repository.RunRepository
}

// NewRunService creates a new run service
func NewRunService(repo *repository.RunRepository) *RunService {
	return &RunService{repo: repo}
}

// LatestRun retrieves the most recent run
func (s *RunService) LatestRun() (*models.Run, error) {
	return s.repo.LatestRun()
}

// LatestDays retrieves the days of the most recent run with filtering and pagination
func (s *RunService) LatestDays(filter models.DayFilter) ([]models.DaySummary, int64, error) {
	run, err := s.repo.LatestRun()
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListDays(run.ID, filter)
}

// GetDay retrieves a single day by ID
func (s *RunService) GetDay(id int64) (*models.DayDetail, error) {
	return s.repo.GetDay(id)
}
