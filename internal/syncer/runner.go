// Package syncer executes synchronization work against the provider and the
// record store: per-item batch runs, the composite season seeder, the batch
// guard, and the read-only status projection used by polling clients.
package syncer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"scoresync/internal/models"
)

// BatchStore is the persistence surface the runner and seeder need. Satisfied
// by repository.SeedBatchRepository.
type BatchStore interface {
	Create(kind string, dryRun bool, itemsTotal int) (*models.SeedBatch, error)
	MarkRunning(id uint) error
	AddItem(batchID uint, externalID, action, errMsg string) error
	AddTotal(batchID uint, n int) error
	Finalize(id uint, status, lastError, meta string) error
	FindByBatchID(batchID string) (*models.SeedBatch, error)
}

// ApplyFunc attempts the upsert for one entity. With dryRun the full
// read/validate path runs but no store mutation happens; the returned action
// is what would have been taken.
type ApplyFunc func(ctx context.Context, dryRun bool) (string, error)

// Item is one entity to process within a batch.
type Item struct {
	ExternalID string
	Apply      ApplyFunc
}

// Options tunes a batch run. ParentID, when non-zero, names a composite batch
// that every item row and total is mirrored into, so the composite's counters
// reconcile with its own BatchItem rows the same way a flat batch's do.
type Options struct {
	DryRun   bool
	ParentID uint
}

// Result is the aggregate outcome of one batch run.
type Result struct {
	BatchID string `json:"batch_id"`
	OK      int    `json:"ok"`
	Fail    int    `json:"fail"`
	Total   int    `json:"total"`
}

// Runner executes a list of already-fetched items as one SeedBatch. Items are
// processed one at a time in input order; one item's failure never aborts the
// rest.
type Runner struct {
	batches BatchStore
	logger  *zap.Logger
}

func NewRunner(batches BatchStore, logger *zap.Logger) *Runner {
	return &Runner{batches: batches, logger: logger}
}

// Run creates a SeedBatch, processes every item, and finalizes the batch.
// The batch is failed only when every item failed; an empty batch counts as
// success. Counters reconcile exactly with the written BatchItem rows.
func (r *Runner) Run(ctx context.Context, kind string, items []Item, opts Options) (Result, error) {
	batch, err := r.batches.Create(kind, opts.DryRun, len(items))
	if err != nil {
		return Result{}, err
	}
	if err := r.batches.MarkRunning(batch.ID); err != nil {
		r.logger.Error("Failed to mark batch running",
			zap.String("batch_id", batch.BatchID), zap.Error(err))
	}
	if opts.ParentID != 0 {
		if err := r.batches.AddTotal(opts.ParentID, len(items)); err != nil {
			r.logger.Error("Failed to grow composite batch total",
				zap.String("batch_id", batch.BatchID), zap.Error(err))
		}
	}

	res := Result{BatchID: batch.BatchID, Total: len(items)}
	var lastErr string

	for _, item := range items {
		action, applyErr := item.Apply(ctx, opts.DryRun)
		if applyErr != nil {
			lastErr = trimErr(applyErr.Error())
			res.Fail++
			r.record(batch.BatchID, batch.ID, opts.ParentID, item.ExternalID, models.ActionFailed, lastErr)
			continue
		}
		res.OK++
		r.record(batch.BatchID, batch.ID, opts.ParentID, item.ExternalID, action, "")
	}

	status := models.JobStatusSuccess
	if res.Total > 0 && res.OK == 0 {
		status = models.JobStatusFailed
	}
	if err := r.batches.Finalize(batch.ID, status, lastErr, ""); err != nil {
		r.logger.Error("Failed to finalize batch",
			zap.String("batch_id", batch.BatchID), zap.Error(err))
	}
	return res, nil
}

// record writes one item outcome, mirrored onto the composite parent when
// there is one.
func (r *Runner) record(publicID string, batchID, parentID uint, externalID, action, errMsg string) {
	if err := r.batches.AddItem(batchID, externalID, action, errMsg); err != nil {
		r.logger.Error("Failed to record batch item",
			zap.String("batch_id", publicID),
			zap.String("external_id", externalID), zap.Error(err))
	}
	if parentID == 0 {
		return
	}
	if err := r.batches.AddItem(parentID, externalID, action, errMsg); err != nil {
		r.logger.Error("Failed to mirror batch item",
			zap.String("batch_id", publicID),
			zap.String("external_id", externalID), zap.Error(err))
	}
}

// trimErr bounds persisted error messages.
func trimErr(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) > 900 {
		msg = msg[:900]
	}
	return msg
}
