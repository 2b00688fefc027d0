package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"scoresync/internal/models"
)

// JobRepository handles job definitions and run history.
type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// EnsureJob inserts a job definition if the key does not exist yet. Existing
// rows keep their admin-edited schedule and enabled flag.
func (r *JobRepository) EnsureJob(key, description, schedule string) error {
	var existing models.Job
	err := r.db.Where("job_key = ?", key).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.Job{
		Key:         key,
		Description: description,
		Enabled:     true,
		Schedule:    schedule,
	}).Error
}

// FindAll returns job definitions with pagination.
func (r *JobRepository) FindAll(limit, page int) ([]models.Job, int64, error) {
	var out []models.Job
	var total int64

	db := r.db.Model(&models.Job{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(limit, page)
	if err := db.Order("job_key ASC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FindByKey returns a job definition.
func (r *JobRepository) FindByKey(key string) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("job_key = ?", key).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// FindEnabled returns every enabled job with a schedule.
func (r *JobRepository) FindEnabled() ([]models.Job, error) {
	var out []models.Job
	err := r.db.Where("enabled = ? AND schedule <> ''", true).Find(&out).Error
	return out, err
}

// StartRun creates a running JobRun for a job key.
func (r *JobRepository) StartRun(key, trigger string) (*models.JobRun, error) {
	run := &models.JobRun{
		JobKey:    key,
		Status:    models.JobStatusRunning,
		Trigger:   trigger,
		StartedAt: time.Now(),
	}
	if err := r.db.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// FinalizeRun closes a run exactly once; finalized runs are immutable.
func (r *JobRepository) FinalizeRun(runID uint, status string, rowsAffected int, batchID, errMsg, meta string) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		var run models.JobRun
		if err := tx.Where("id = ?", runID).First(&run).Error; err != nil {
			return err
		}
		if run.FinishedAt != nil {
			return nil
		}
		return tx.Model(&models.JobRun{}).Where("id = ?", runID).Updates(map[string]interface{}{
			"status":        status,
			"finished_at":   now,
			"duration_ms":   now.Sub(run.StartedAt).Milliseconds(),
			"rows_affected": rowsAffected,
			"batch_id":      batchID,
			"error":         errMsg,
			"meta":          meta,
		}).Error
	})
}

// ListRuns returns run history for a job key, newest first.
func (r *JobRepository) ListRuns(key string, limit, page int) ([]models.JobRun, int64, error) {
	var out []models.JobRun
	var total int64

	db := r.db.Model(&models.JobRun{}).Where("job_key = ?", key)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(limit, page)
	if err := db.Order("id DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FindRunByID returns one run.
func (r *JobRepository) FindRunByID(runID uint) (*models.JobRun, error) {
	var run models.JobRun
	if err := r.db.Where("id = ?", runID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
