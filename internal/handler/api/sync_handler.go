package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"scoresync/internal/models"
	"scoresync/internal/syncer"
)

// SeedStarter launches an async seed job. Implemented by syncer.Seeder.
type SeedStarter interface {
	Start(ctx context.Context, req syncer.SeedRequest) (string, error)
}

// StatusGetter resolves a job's polling status. Implemented by
// syncer.StatusService.
type StatusGetter interface {
	GetStatus(jobID string) (*syncer.Status, error)
}

// BatchReader is the read side of the batch audit tables. Implemented by
// repository.SeedBatchRepository.
type BatchReader interface {
	FindByBatchID(batchID string) (*models.SeedBatch, error)
	ListItems(batchID uint, limit, page int) ([]models.BatchItem, int64, error)
	ListBatches(limit, page int, kind string) ([]models.SeedBatch, int64, error)
}

// SyncHandler exposes seed-season submission and job status polling.
type SyncHandler struct {
	seeder  SeedStarter
	status  StatusGetter
	batches BatchReader
	logger  *zap.Logger
}

func NewSyncHandler(seeder SeedStarter, status StatusGetter,
	batches BatchReader, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{seeder: seeder, status: status, batches: batches, logger: logger}
}

type seedSeasonRequest struct {
	syncer.SeedRequest
	// SeasonExternalIDs switches to the multi-season variant; each season gets
	// its own job.
	SeasonExternalIDs []string `json:"seasonExternalIds"`
}

type seedAccepted struct {
	JobID string `json:"job_id"`
}

type seedBatchEntry struct {
	SeasonExternalID string `json:"seasonExternalId"`
	JobID            string `json:"job_id,omitempty"`
	Error            string `json:"error,omitempty"`
}

// SeedSeason starts seeding for one season, or one job per season when
// seasonExternalIds is given.
// POST /api/sync/seed-season
func (h *SyncHandler) SeedSeason(c echo.Context) error {
	var req seedSeasonRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}

	if len(req.SeasonExternalIDs) > 0 {
		return h.seedMany(c, req)
	}

	if req.SeasonExternalID == "" {
		return errorResponse(c, http.StatusBadRequest, "seasonExternalId is required")
	}

	jobID, err := h.seeder.Start(c.Request().Context(), req.SeedRequest)
	if err != nil {
		if errors.Is(err, syncer.ErrSeasonBusy) {
			return errorWithCode(c, http.StatusConflict, "season_busy", err.Error())
		}
		h.logger.Error("Failed to start seed job",
			zap.String("season", req.SeasonExternalID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to start seed job")
	}
	return acceptedResponse(c, "Seed job accepted", seedAccepted{JobID: jobID})
}

func (h *SyncHandler) seedMany(c echo.Context, req seedSeasonRequest) error {
	entries := make([]seedBatchEntry, 0, len(req.SeasonExternalIDs))
	accepted := 0
	for _, id := range req.SeasonExternalIDs {
		entry := seedBatchEntry{SeasonExternalID: id}
		one := req.SeedRequest
		one.SeasonExternalID = id
		jobID, err := h.seeder.Start(c.Request().Context(), one)
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.JobID = jobID
			accepted++
		}
		entries = append(entries, entry)
	}
	if accepted == 0 {
		return errorWithCode(c, http.StatusConflict, "no_jobs_started", "No seed jobs could be started")
	}
	return acceptedResponse(c, "Seed jobs accepted", map[string]interface{}{"jobs": entries})
}

// JobStatus returns the polling projection of one seed job.
// GET /api/sync/jobs/:jobId/status
func (h *SyncHandler) JobStatus(c echo.Context) error {
	jobID := c.Param("jobId")
	status, err := h.status.GetStatus(jobID)
	if err != nil {
		if errors.Is(err, syncer.ErrJobNotFound) {
			return errorWithCode(c, http.StatusNotFound, "job_not_found", "No job with this id")
		}
		h.logger.Error("Failed to load job status", zap.String("job_id", jobID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to load job status")
	}
	return successResponse(c, "", status)
}

// ListBatches lists recent seed batches, optionally filtered by kind.
// GET /api/sync/batches
func (h *SyncHandler) ListBatches(c echo.Context) error {
	limit, page := parsePaging(c)
	kind := c.QueryParam("kind")
	batches, total, err := h.batches.ListBatches(limit, page, kind)
	if err != nil {
		h.logger.Error("Failed to list batches", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to list batches")
	}
	return successResponse(c, "", paginatedResponse(batches, total, page, limit))
}

// BatchItems returns the per-item outcomes of one batch. For a composite
// seed-season batch these are the mirrored rows of all its sub-batches.
// GET /api/sync/batches/:batchId/items
func (h *SyncHandler) BatchItems(c echo.Context) error {
	batchID := c.Param("batchId")
	batch, err := h.batches.FindByBatchID(batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorWithCode(c, http.StatusNotFound, "batch_not_found", "No batch with this id")
		}
		h.logger.Error("Failed to load batch", zap.String("batch_id", batchID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to load batch")
	}

	limit, page := parsePaging(c)
	items, total, err := h.batches.ListItems(batch.ID, limit, page)
	if err != nil {
		h.logger.Error("Failed to list batch items", zap.String("batch_id", batchID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to list batch items")
	}
	return successResponse(c, "", paginatedResponse(items, total, page, limit))
}
