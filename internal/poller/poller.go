package poller

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"scoresync/internal/syncer"
)

// State is the controller's lifecycle position.
type State string

const (
	StateIdle       State = "idle"
	StateStarting   State = "starting"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// FailReason explains a terminal StateFailed.
type FailReason string

const (
	ReasonNone      FailReason = ""
	ReasonJobFailed FailReason = "job_failed"
	ReasonTimeout   FailReason = "timeout"
	ReasonTransport FailReason = "transport"
	ReasonCanceled  FailReason = "canceled"
)

var (
	// ErrAlreadyRunning is returned by Start when a poll cycle is in
	// progress. Reset after a terminal state to start again.
	ErrAlreadyRunning = errors.New("poller: a job is already being tracked")
	// ErrNotTerminal is returned by Reset while the controller is still
	// tracking a job.
	ErrNotTerminal = errors.New("poller: cannot reset before a terminal state")
)

// Options bounds a poll cycle. Zero values fall back to defaults.
type Options struct {
	Interval             time.Duration
	MaxAttempts          int
	MaxConsecutiveErrors int
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = 3 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 60
	}
	if o.MaxConsecutiveErrors <= 0 {
		o.MaxConsecutiveErrors = 5
	}
	return o
}

// Snapshot is the externally visible poller state. Copies are handed out;
// callers can never mutate controller internals through one.
type Snapshot struct {
	State             State
	JobID             string
	Attempts          int
	ConsecutiveErrors int
	Progress          *int
	Result            json.RawMessage
	Reason            FailReason
	Err               string
}

func (s Snapshot) terminal() bool {
	return s.State == StateCompleted || s.State == StateFailed
}

// advance folds one poll outcome into the snapshot. It is a pure function:
// all timer and transport side effects live in the controller.
func advance(s Snapshot, status *syncer.Status, pollErr error, opts Options) Snapshot {
	if s.terminal() {
		return s
	}
	s.Attempts++

	if pollErr != nil {
		if errors.Is(pollErr, syncer.ErrJobNotFound) {
			s.State = StateFailed
			s.Reason = ReasonTransport
			s.Err = pollErr.Error()
			return s
		}
		s.ConsecutiveErrors++
		if s.ConsecutiveErrors >= opts.MaxConsecutiveErrors {
			s.State = StateFailed
			s.Reason = ReasonTransport
			s.Err = pollErr.Error()
		}
		return s
	}

	s.ConsecutiveErrors = 0
	s.Progress = status.Progress

	switch status.State {
	case syncer.StateWaiting:
		s.State = StateStarting
	case syncer.StateActive:
		s.State = StateProcessing
	case syncer.StateCompleted:
		s.State = StateCompleted
		s.Result = status.Result
		return s
	case syncer.StateFailed:
		s.State = StateFailed
		s.Reason = ReasonJobFailed
		s.Err = status.Error
		return s
	}

	if s.Attempts >= opts.MaxAttempts {
		s.State = StateFailed
		s.Reason = ReasonTimeout
		s.Err = "gave up waiting for job completion"
	}
	return s
}

// StatusClient starts a seed job and polls its status. Implemented by
// APIClient against the sync API.
type StatusClient interface {
	StartSeedSeason(ctx context.Context, req syncer.SeedRequest) (string, error)
	JobStatus(ctx context.Context, jobID string) (*syncer.Status, error)
}

// Controller drives one seed job at a time from start to a terminal state.
// The only side-effecting resource it owns is a single timer; every poll
// response is applied through the pure advance function, and a generation
// counter discards responses that arrive after Stop or Reset.
type Controller struct {
	client StatusClient
	opts   Options
	logger *zap.Logger

	mu    sync.Mutex
	snap  Snapshot
	timer *time.Timer
	gen   int
	done  chan struct{}
}

func NewController(client StatusClient, opts Options, logger *zap.Logger) *Controller {
	return &Controller{
		client: client,
		opts:   opts.withDefaults(),
		logger: logger,
		snap:   Snapshot{State: StateIdle},
		done:   make(chan struct{}),
	}
}

// Start submits the seed request and begins polling. Only one job can be
// tracked per controller; Reset after a terminal state to reuse it.
func (c *Controller) Start(ctx context.Context, req syncer.SeedRequest) (string, error) {
	c.mu.Lock()
	if c.snap.State != StateIdle {
		c.mu.Unlock()
		return "", ErrAlreadyRunning
	}
	c.snap.State = StateStarting
	gen := c.gen
	c.mu.Unlock()

	jobID, err := c.client.StartSeedSeason(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return "", context.Canceled
	}
	if err != nil {
		c.snap.State = StateFailed
		c.snap.Reason = ReasonTransport
		c.snap.Err = err.Error()
		c.finishLocked()
		return "", err
	}
	c.snap.JobID = jobID
	// First poll fires right away; the interval only paces the follow-ups.
	c.scheduleLocked(gen, 0)
	return jobID, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Done is closed when the tracked job reaches a terminal state or the
// controller is stopped. Reset replaces the channel.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Stop cancels polling. A non-terminal snapshot becomes failed/canceled;
// responses from an in-flight poll are discarded.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if !c.snap.terminal() && c.snap.State != StateIdle {
		c.snap.State = StateFailed
		c.snap.Reason = ReasonCanceled
	}
	c.finishLocked()
}

// Reset returns a terminal controller to idle so it can track another job.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.snap.terminal() && c.snap.State != StateIdle {
		return ErrNotTerminal
	}
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.snap = Snapshot{State: StateIdle}
	c.done = make(chan struct{})
	return nil
}

func (c *Controller) scheduleLocked(gen int, d time.Duration) {
	c.timer = time.AfterFunc(d, func() { c.poll(gen) })
}

func (c *Controller) poll(gen int) {
	c.mu.Lock()
	if gen != c.gen || c.snap.terminal() {
		c.mu.Unlock()
		return
	}
	jobID := c.snap.JobID
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Interval)
	status, err := c.client.JobStatus(ctx, jobID)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.snap.terminal() {
		return
	}

	if err != nil {
		c.logger.Warn("Job status poll failed",
			zap.String("job_id", jobID), zap.Error(err))
	}

	c.snap = advance(c.snap, status, err, c.opts)
	if c.snap.terminal() {
		c.finishLocked()
		return
	}
	c.scheduleLocked(gen, c.opts.Interval)
}

// finishLocked closes done exactly once for the current generation.
func (c *Controller) finishLocked() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
