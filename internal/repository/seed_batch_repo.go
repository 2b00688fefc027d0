package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scoresync/internal/models"
)

// SeedBatchRepository handles seed batch and batch item persistence. The batch
// rows are the single source of truth for batch state; only the runner mutates
// them, status readers never do.
type SeedBatchRepository struct {
	db *gorm.DB
}

func NewSeedBatchRepository(db *gorm.DB) *SeedBatchRepository {
	return &SeedBatchRepository{db: db}
}

// Create inserts a new queued batch with a fresh public id.
func (r *SeedBatchRepository) Create(kind string, dryRun bool, itemsTotal int) (*models.SeedBatch, error) {
	batch := &models.SeedBatch{
		BatchID:    uuid.New().String(),
		Kind:       kind,
		Status:     models.JobStatusQueued,
		DryRun:     dryRun,
		ItemsTotal: itemsTotal,
	}
	if err := r.db.Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

// MarkRunning flips a queued batch to running and stamps the start time.
func (r *SeedBatchRepository) MarkRunning(id uint) error {
	now := time.Now()
	return r.db.Model(&models.SeedBatch{}).
		Where("id = ? AND status = ?", id, models.JobStatusQueued).
		Updates(map[string]interface{}{
			"status":     models.JobStatusRunning,
			"started_at": now,
		}).Error
}

// AddItem records one processed entity and bumps the batch counters in the
// same transaction so counters always reconcile with the item rows.
func (r *SeedBatchRepository) AddItem(batchID uint, externalID, action, errMsg string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		item := &models.BatchItem{
			SeedBatchID: batchID,
			ExternalID:  externalID,
			Action:      action,
			Error:       errMsg,
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if action == models.ActionFailed {
			updates["items_failed"] = gorm.Expr("items_failed + 1")
			updates["last_error"] = errMsg
		} else {
			updates["items_success"] = gorm.Expr("items_success + 1")
		}
		return tx.Model(&models.SeedBatch{}).Where("id = ?", batchID).Updates(updates).Error
	})
}

// AddTotal grows a composite batch's expected item count by one sub-batch's
// size. Success/failure counters arrive through the mirrored AddItem calls.
func (r *SeedBatchRepository) AddTotal(batchID uint, n int) error {
	return r.db.Model(&models.SeedBatch{}).Where("id = ?", batchID).
		Update("items_total", gorm.Expr("items_total + ?", n)).Error
}

// Finalize closes a batch exactly once. Calls against an already finalized
// batch are no-ops.
func (r *SeedBatchRepository) Finalize(id uint, status, lastError, meta string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"finished_at": now,
	}
	if lastError != "" {
		updates["last_error"] = lastError
	}
	if meta != "" {
		updates["meta"] = meta
	}
	return r.db.Model(&models.SeedBatch{}).
		Where("id = ? AND status IN ?", id, []string{models.JobStatusQueued, models.JobStatusRunning}).
		Updates(updates).Error
}

// FindByBatchID resolves a batch by its public id.
func (r *SeedBatchRepository) FindByBatchID(batchID string) (*models.SeedBatch, error) {
	var batch models.SeedBatch
	if err := r.db.Where("batch_id = ?", batchID).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListItems returns the items of a batch with pagination.
func (r *SeedBatchRepository) ListItems(batchID uint, limit, page int) ([]models.BatchItem, int64, error) {
	var items []models.BatchItem
	var total int64

	db := r.db.Model(&models.BatchItem{}).Where("seed_batch_id = ?", batchID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(limit, page)
	if err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListBatches returns batches with pagination, optionally filtered by kind.
func (r *SeedBatchRepository) ListBatches(limit, page int, kind string) ([]models.SeedBatch, int64, error) {
	var out []models.SeedBatch
	var total int64

	db := r.db.Model(&models.SeedBatch{})
	if kind != "" {
		db = db.Where("kind = ?", kind)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(limit, page)
	if err := db.Order("id DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
