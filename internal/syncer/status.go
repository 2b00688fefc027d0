package syncer

import (
	"encoding/json"
	"errors"
	"math"

	"gorm.io/gorm"

	"scoresync/internal/models"
)

// ErrJobNotFound distinguishes "no such job" from "not started yet"; unknown
// ids must never look like a default/empty status.
var ErrJobNotFound = errors.New("job not found")

// Caller-facing job states, a smaller vocabulary than the stored statuses.
const (
	StateWaiting   = "waiting"
	StateActive    = "active"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// Status is the polling projection of one batch.
type Status struct {
	JobID    string          `json:"job_id"`
	State    string          `json:"state"`
	Progress *int            `json:"progress,omitempty"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// BatchFinder is the read side of the batch store.
type BatchFinder interface {
	FindByBatchID(batchID string) (*models.SeedBatch, error)
}

// StatusService is a read-only projection over persisted batch state. Safe
// under concurrent reads; it never mutates batch rows.
type StatusService struct {
	batches BatchFinder
}

func NewStatusService(batches BatchFinder) *StatusService {
	return &StatusService{batches: batches}
}

// GetStatus resolves one job's polling status by public id.
func (s *StatusService) GetStatus(jobID string) (*Status, error) {
	batch, err := s.batches.FindByBatchID(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	st := &Status{
		JobID: batch.BatchID,
		State: mapState(batch.Status),
	}
	if batch.ItemsTotal > 0 {
		p := int(math.Round(float64(batch.ItemsSuccess+batch.ItemsFailed) / float64(batch.ItemsTotal) * 100))
		st.Progress = &p
	}
	if st.State == StateCompleted && batch.Meta != "" {
		st.Result = json.RawMessage(batch.Meta)
	}
	if st.State == StateFailed {
		st.Error = batch.LastError
	}
	return st, nil
}

// mapState narrows stored statuses to the caller-facing vocabulary.
func mapState(status string) string {
	switch status {
	case models.JobStatusQueued:
		return StateWaiting
	case models.JobStatusRunning:
		return StateActive
	case models.JobStatusSuccess, models.JobStatusSkipped:
		return StateCompleted
	case models.JobStatusFailed:
		return StateFailed
	default:
		return StateFailed
	}
}
