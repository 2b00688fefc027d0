package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"scoresync/internal/models"
	"scoresync/internal/repository"
	"scoresync/internal/syncer"
)

// Registered job keys.
const (
	JobRefreshCountries     = "refresh-countries"
	JobRefreshLeagues       = "refresh-leagues"
	JobRefreshBookmakers    = "refresh-bookmakers"
	JobRefreshFixturesToday = "refresh-fixtures-today"
)

// JobDef is a default job definition ensured at bootstrap. Schedules use
// six-field cron expressions (with seconds); admins can edit them afterwards.
type JobDef struct {
	Key         string
	Description string
	Schedule    string
}

// DefaultJobs returns the built-in job definitions.
func DefaultJobs() []JobDef {
	return []JobDef{
		{JobRefreshCountries, "Refresh the country list from the provider", "0 0 4 * * *"},
		{JobRefreshLeagues, "Refresh the league list from the provider", "0 10 4 * * *"},
		{JobRefreshBookmakers, "Refresh the bookmaker list from the provider", "0 20 4 * * *"},
		{JobRefreshFixturesToday, "Refresh today's fixtures (scores, statuses)", "0 */15 * * * *"},
	}
}

// Scheduler runs the registered jobs on their stored schedules and on demand.
// Every execution is recorded as a JobRun; refresh work goes through the
// batch runner so per-item outcomes land in the usual audit tables.
type Scheduler struct {
	cron      *cron.Cron
	jobs      *repository.JobRepository
	refresher *syncer.Refresher
	logger    *zap.Logger
	executors map[string]func(ctx context.Context) (syncer.Result, error)
}

func New(jobs *repository.JobRepository, refresher *syncer.Refresher, logger *zap.Logger) *Scheduler {
	s := &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		jobs:      jobs,
		refresher: refresher,
		logger:    logger,
	}
	s.executors = map[string]func(ctx context.Context) (syncer.Result, error){
		JobRefreshCountries:  refresher.RefreshCountries,
		JobRefreshLeagues:    refresher.RefreshLeagues,
		JobRefreshBookmakers: refresher.RefreshBookmakers,
		JobRefreshFixturesToday: func(ctx context.Context) (syncer.Result, error) {
			return refresher.RefreshFixturesByDate(ctx, time.Now())
		},
	}
	return s
}

// Start registers every enabled job with a schedule and starts the cron loop.
func (s *Scheduler) Start() error {
	enabled, err := s.jobs.FindEnabled()
	if err != nil {
		return fmt.Errorf("load enabled jobs: %w", err)
	}

	for _, job := range enabled {
		key := job.Key
		if _, ok := s.executors[key]; !ok {
			s.logger.Warn("Skipping job with no executor", zap.String("job_key", key))
			continue
		}
		if _, err := s.cron.AddFunc(job.Schedule, func() {
			if _, err := s.RunJob(context.Background(), key, models.TriggerScheduled); err != nil {
				s.logger.Error("Scheduled job failed to start",
					zap.String("job_key", key), zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("register job %s: %w", key, err)
		}
		s.logger.Info("Registered job",
			zap.String("job_key", key), zap.String("schedule", job.Schedule))
	}

	s.cron.Start()
	s.logger.Info("Cron scheduler started", zap.Int("jobs", len(enabled)))
	return nil
}

// Stop halts the cron loop and waits for running invocations.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler stopped")
}

// RunJob starts one job and returns its run row while the work continues in
// the background. Scheduled triggers respect the enabled flag; manual and API
// triggers run regardless.
func (s *Scheduler) RunJob(ctx context.Context, key, trigger string) (*models.JobRun, error) {
	job, err := s.jobs.FindByKey(key)
	if err != nil {
		return nil, err
	}
	exec, ok := s.executors[key]
	if !ok {
		return nil, fmt.Errorf("job %s has no executor", key)
	}

	run, err := s.jobs.StartRun(key, trigger)
	if err != nil {
		return nil, err
	}

	if !job.Enabled && trigger == models.TriggerScheduled {
		if err := s.jobs.FinalizeRun(run.ID, models.JobStatusSkipped, 0, "", "job disabled", ""); err != nil {
			s.logger.Error("Failed to finalize skipped run",
				zap.String("job_key", key), zap.Error(err))
		}
		return run, nil
	}

	go s.execute(run, key, exec)
	return run, nil
}

func (s *Scheduler) execute(run *models.JobRun, key string, exec func(ctx context.Context) (syncer.Result, error)) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Job panicked", zap.String("job_key", key), zap.Any("panic", rec))
			s.finalize(run, models.JobStatusFailed, 0, "", fmt.Sprintf("panic: %v", rec), "")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	res, err := exec(ctx)
	if err != nil {
		s.logger.Error("Job failed", zap.String("job_key", key), zap.Error(err))
		s.finalize(run, models.JobStatusFailed, 0, "", err.Error(), "")
		return
	}

	meta, _ := json.Marshal(map[string]int{"ok": res.OK, "fail": res.Fail, "total": res.Total})
	status := models.JobStatusSuccess
	errMsg := ""
	if res.Total > 0 && res.OK == 0 {
		status = models.JobStatusFailed
		errMsg = "all items failed"
	}
	s.finalize(run, status, res.OK, res.BatchID, errMsg, string(meta))

	s.logger.Info("Job finished",
		zap.String("job_key", key),
		zap.String("status", status),
		zap.String("batch_id", res.BatchID),
		zap.Int("ok", res.OK),
		zap.Int("fail", res.Fail))
}

func (s *Scheduler) finalize(run *models.JobRun, status string, rows int, batchID, errMsg, meta string) {
	if err := s.jobs.FinalizeRun(run.ID, status, rows, batchID, errMsg, meta); err != nil {
		s.logger.Error("Failed to finalize job run",
			zap.String("job_key", run.JobKey), zap.Uint("run_id", run.ID), zap.Error(err))
	}
}
