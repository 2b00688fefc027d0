package models

import "time"

// Batch item actions.
const (
	ActionInserted = "inserted"
	ActionUpdated  = "updated"
	ActionSkipped  = "skipped"
	ActionFailed   = "failed"
)

// SeedBatch is one execution of a multi-item seeding operation, tracked
// independently of recurring job definitions. Counters are maintained
// incrementally as items complete and must reconcile exactly with the
// batch_items rows: items_total = items_success + items_failed once finalized.
type SeedBatch struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BatchID      string     `gorm:"column:batch_id;size:64;uniqueIndex:idx_seed_batches_batch_id" json:"batch_id"`
	Kind         string     `gorm:"column:kind;size:50;index:idx_seed_batches_kind_status,priority:1" json:"kind"`
	Status       string     `gorm:"column:status;size:30;index:idx_seed_batches_kind_status,priority:2" json:"status"`
	DryRun       bool       `gorm:"column:dry_run;default:false" json:"dry_run"`
	ItemsTotal   int        `gorm:"column:items_total;default:0" json:"items_total"`
	ItemsSuccess int        `gorm:"column:items_success;default:0" json:"items_success"`
	ItemsFailed  int        `gorm:"column:items_failed;default:0" json:"items_failed"`
	Meta         string     `gorm:"column:meta;type:longtext" json:"meta"`
	LastError    string     `gorm:"column:last_error;type:text" json:"last_error"`
	StartedAt    *time.Time `gorm:"column:started_at" json:"started_at"`
	FinishedAt   *time.Time `gorm:"column:finished_at" json:"finished_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SeedBatch) TableName() string {
	return "seed_batches"
}

// BatchItem is the recorded outcome of processing one entity within a
// SeedBatch. Immutable once written.
type BatchItem struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SeedBatchID uint      `gorm:"column:seed_batch_id;index:idx_batch_items_batch,priority:1" json:"seed_batch_id"`
	ExternalID  string    `gorm:"column:external_id;size:128" json:"external_id"`
	Action      string    `gorm:"column:action;size:30;index:idx_batch_items_batch,priority:2" json:"action"`
	Error       string    `gorm:"column:error;type:text" json:"error"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (BatchItem) TableName() string {
	return "batch_items"
}
