package models

import "time"

// Job statuses shared by JobRun and SeedBatch.
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusSuccess = "success"
	JobStatusFailed  = "failed"
	JobStatusSkipped = "skipped"
)

// JobRun triggers.
const (
	TriggerScheduled = "scheduled"
	TriggerAPI       = "api"
)

// Job is a named, configurable unit of recurring or on-demand work. Rows are
// seeded at bootstrap and edited by admins; they are never deleted in normal
// operation.
type Job struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Key         string    `gorm:"column:job_key;size:100;uniqueIndex:idx_jobs_key" json:"key"`
	Description string    `gorm:"column:description;size:500" json:"description"`
	Enabled     bool      `gorm:"column:enabled;default:true" json:"enabled"`
	Schedule    string    `gorm:"column:schedule;size:100" json:"schedule"` // cron expression, empty = on-demand only
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobRun is one execution of a Job. Created when execution starts, finalized
// exactly once when it ends; immutable after finalization.
type JobRun struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	JobKey       string     `gorm:"column:job_key;size:100;index:idx_job_runs_key" json:"job_key"`
	Status       string     `gorm:"column:status;size:30;index:idx_job_runs_status" json:"status"`
	Trigger      string     `gorm:"column:trigger_source;size:30" json:"trigger"`
	BatchID      string     `gorm:"column:batch_id;size:64;index:idx_job_runs_batch" json:"batch_id"`
	StartedAt    time.Time  `gorm:"column:started_at" json:"started_at"`
	FinishedAt   *time.Time `gorm:"column:finished_at" json:"finished_at"`
	DurationMS   int64      `gorm:"column:duration_ms;default:0" json:"duration_ms"`
	RowsAffected int        `gorm:"column:rows_affected;default:0" json:"rows_affected"`
	Error        string     `gorm:"column:error;type:text" json:"error"`
	Meta         string     `gorm:"column:meta;type:text" json:"meta"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (JobRun) TableName() string {
	return "job_runs"
}
