package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"scoresync/internal/models"
)

// JobTrigger starts one registered job out of schedule. Implemented by the
// cron scheduler.
type JobTrigger interface {
	RunJob(ctx context.Context, key, trigger string) (*models.JobRun, error)
}

// JobsHandler serves job definitions, run history and manual triggers.
type JobsHandler struct {
	repos   *Repos
	trigger JobTrigger
	logger  *zap.Logger
}

func NewJobsHandler(repos *Repos, trigger JobTrigger, logger *zap.Logger) *JobsHandler {
	return &JobsHandler{repos: repos, trigger: trigger, logger: logger}
}

// List returns the registered job definitions.
// GET /api/jobs
func (h *JobsHandler) List(c echo.Context) error {
	limit, page := parsePaging(c)
	jobs, total, err := h.repos.Job.FindAll(limit, page)
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to list jobs")
	}
	return successResponse(c, "", paginatedResponse(jobs, total, page, limit))
}

// Runs returns the run history of one job, newest first.
// GET /api/jobs/:key/runs
func (h *JobsHandler) Runs(c echo.Context) error {
	key := c.Param("key")
	if _, err := h.repos.Job.FindByKey(key); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorWithCode(c, http.StatusNotFound, "job_not_found", "No job with key "+key)
		}
		h.logger.Error("Failed to load job", zap.String("job_key", key), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to load job")
	}

	limit, page := parsePaging(c)
	runs, total, err := h.repos.Job.ListRuns(key, limit, page)
	if err != nil {
		h.logger.Error("Failed to list job runs", zap.String("job_key", key), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to list job runs")
	}
	return successResponse(c, "", paginatedResponse(runs, total, page, limit))
}

// RunItems returns the per-item outcomes behind one run's batch.
// GET /api/jobs/runs/:runId/items
func (h *JobsHandler) RunItems(c echo.Context) error {
	runID, err := strconv.ParseUint(c.Param("runId"), 10, 32)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid run id")
	}

	run, err := h.repos.Job.FindRunByID(uint(runID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorWithCode(c, http.StatusNotFound, "run_not_found", "No run with this id")
		}
		h.logger.Error("Failed to load job run", zap.Uint64("run_id", runID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to load job run")
	}
	if run.BatchID == "" {
		return successResponse(c, "", paginatedResponse([]models.BatchItem{}, 0, 1, 50))
	}

	batch, err := h.repos.Batch.FindByBatchID(run.BatchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorWithCode(c, http.StatusNotFound, "batch_not_found", "Run references a missing batch")
		}
		h.logger.Error("Failed to load run batch", zap.String("batch_id", run.BatchID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to load run batch")
	}

	limit, page := parsePaging(c)
	items, total, err := h.repos.Batch.ListItems(batch.ID, limit, page)
	if err != nil {
		h.logger.Error("Failed to list batch items", zap.String("batch_id", run.BatchID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to list batch items")
	}
	return successResponse(c, "", paginatedResponse(items, total, page, limit))
}

// Run triggers one job outside its schedule.
// POST /api/jobs/:key/run
func (h *JobsHandler) Run(c echo.Context) error {
	key := c.Param("key")
	run, err := h.trigger.RunJob(c.Request().Context(), key, models.TriggerAPI)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorWithCode(c, http.StatusNotFound, "job_not_found", "No job with key "+key)
		}
		h.logger.Error("Failed to trigger job", zap.String("job_key", key), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to trigger job")
	}
	return acceptedResponse(c, "Job run started", map[string]interface{}{
		"run_id":  run.ID,
		"job_key": run.JobKey,
		"status":  run.Status,
	})
}
