package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/trackmap-go/internal/ingest"
	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/jengzang/trackmap-go/internal/repository"
	"github.com/jengzang/trackmap-go/internal/service"
	"github.com/jengzang/trackmap-go/internal/track"
	"github.com/jengzang/trackmap-go/pkg/response"
)

// RunHandler handles HTTP requests for processing runs
type RunHandler struct {
	runs      *service.RunService
	generator *service.GenerateService
}

// NewRunHandler creates a new run handler
func NewRunHandler(runs *service.RunService, generator *service.GenerateService) *RunHandler {
	return &RunHandler{runs: runs, generator: generator}
}

// GetLatestRun handles GET /api/v1/runs/latest
func (h *RunHandler) GetLatestRun(c *gin.Context) {
	run, err := h.runs.LatestRun()
	if errors.Is(err, repository.ErrNotFound) {
		response.NotFound(c, "No runs yet")
		return
	}
	if err != nil {
		response.InternalError(c, "Failed to get run", err)
		return
	}

	response.Success(c, run)
}

// GetLatestDays handles GET /api/v1/runs/latest/days
func (h *RunHandler) GetLatestDays(c *gin.Context) {
	var filter models.DayFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	days, total, err := h.runs.LatestDays(filter)
	if errors.Is(err, repository.ErrNotFound) {
		response.NotFound(c, "No runs yet")
		return
	}
	if err != nil {
		response.InternalError(c, "Failed to get days", err)
		return
	}

	response.Success(c, response.NewPage(days, total, filter.Page, filter.PageSize))
}

// GetDay handles GET /api/v1/days/:id
func (h *RunHandler) GetDay(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid day ID", err)
		return
	}

	day, err := h.runs.GetDay(id)
	if errors.Is(err, repository.ErrNotFound) {
		response.NotFound(c, "Day not found")
		return
	}
	if err != nil {
		response.InternalError(c, "Failed to get day", err)
		return
	}

	response.Success(c, day)
}

// CreateRun handles POST /api/v1/runs; it generates synchronously and returns the stored run
func (h *RunHandler) CreateRun(c *gin.Context) {
	report, err := h.generator.Generate(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrRunInProgress):
		response.Error(c, http.StatusConflict, "Generation already in progress", err)
		return
	case errors.Is(err, ingest.ErrNoFiles),
		errors.Is(err, track.ErrInvalidInput),
		errors.Is(err, track.ErrUnorderedInput):
		response.Error(c, http.StatusUnprocessableEntity, "Input data cannot be processed", err)
		return
	case err != nil:
		response.InternalError(c, "Failed to generate", err)
		return
	}

	response.Created(c, report.Run)
}
