package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"scoresync/internal/models"
	"scoresync/internal/provider"
)

// Batch kinds.
const (
	KindSeedSeason = "seed-season"
	KindSeason     = "season"
	KindTeams      = "teams"
	KindFixtures   = "fixtures"
)

// SeedSeasonResultVersion tags the meta schema stored on seed-season batches.
// Bump when SeedSeasonResult changes shape.
const SeedSeasonResultVersion = 1

// SeedRequest asks for one season (plus optionally its teams and fixtures) to
// be seeded into the store.
type SeedRequest struct {
	SeasonExternalID string `json:"seasonExternalId"`
	IncludeTeams     bool   `json:"includeTeams"`
	IncludeFixtures  bool   `json:"includeFixtures"`
	FutureOnly       bool   `json:"futureOnly"`
	DryRun           bool   `json:"dryRun"`
}

// StepResult reports one step of a composite seed. Error is set when the
// provider snapshot could not be fetched; in that case no items were
// processed for the step.
type StepResult struct {
	BatchID string `json:"batch_id,omitempty"`
	OK      int    `json:"ok"`
	Fail    int    `json:"fail"`
	Total   int    `json:"total"`
	Error   string `json:"error,omitempty"`
}

// SeedSeasonResult is the closed, versioned result schema persisted in a
// seed-season batch's meta column.
type SeedSeasonResult struct {
	Version          int         `json:"version"`
	Kind             string      `json:"kind"`
	SeasonExternalID string      `json:"season_external_id"`
	Season           *StepResult `json:"season,omitempty"`
	Teams            *StepResult `json:"teams,omitempty"`
	Fixtures         *StepResult `json:"fixtures,omitempty"`
}

// SeasonUpserter, TeamUpserter and FixtureUpserter are the store writes the
// seeder needs; satisfied by the corresponding repositories.
type SeasonUpserter interface {
	Upsert(in *models.Season, dryRun bool) (string, error)
}

type TeamUpserter interface {
	Upsert(in *models.Team, dryRun bool) (string, error)
}

type FixtureUpserter interface {
	Upsert(in *models.Fixture, dryRun bool) (string, error)
}

// SeederStores bundles the store dependencies of the seeder.
type SeederStores struct {
	Batch   BatchStore
	Season  SeasonUpserter
	Team    TeamUpserter
	Fixture FixtureUpserter
}

// Seeder composes season, teams and fixtures batch runs into one logical unit
// exposed to callers as a single async job. A single goroutine runs the
// composite to completion; the returned job id is polled via StatusService.
type Seeder struct {
	provider provider.Client
	runner   *Runner
	stores   SeederStores
	guard    ActiveGuard
	logger   *zap.Logger
}

func NewSeeder(p provider.Client, runner *Runner, stores SeederStores, guard ActiveGuard, logger *zap.Logger) *Seeder {
	return &Seeder{provider: p, runner: runner, stores: stores, guard: guard, logger: logger}
}

// Start registers a queued composite batch and launches its execution.
// Returns ErrSeasonBusy when a batch for the same season is still active.
func (s *Seeder) Start(ctx context.Context, req SeedRequest) (string, error) {
	if req.SeasonExternalID == "" {
		return "", fmt.Errorf("seasonExternalId is required")
	}
	if err := s.guard.Acquire(ctx, req.SeasonExternalID); err != nil {
		return "", err
	}

	parent, err := s.stores.Batch.Create(KindSeedSeason, req.DryRun, 0)
	if err != nil {
		s.guard.Release(ctx, req.SeasonExternalID)
		return "", err
	}

	go s.run(parent, req)
	return parent.BatchID, nil
}

func (s *Seeder) run(parent *models.SeedBatch, req SeedRequest) {
	ctx := context.Background()
	defer s.guard.Release(ctx, req.SeasonExternalID)
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Seed batch panicked",
				zap.String("batch_id", parent.BatchID), zap.Any("panic", rec))
			_ = s.stores.Batch.Finalize(parent.ID, models.JobStatusFailed,
				trimErr(fmt.Sprintf("panic: %v", rec)), "")
		}
	}()

	if err := s.stores.Batch.MarkRunning(parent.ID); err != nil {
		s.logger.Error("Failed to mark seed batch running",
			zap.String("batch_id", parent.BatchID), zap.Error(err))
	}

	result := SeedSeasonResult{
		Version:          SeedSeasonResultVersion,
		Kind:             KindSeedSeason,
		SeasonExternalID: req.SeasonExternalID,
	}

	// A provider failure here happens before any item processing and is fatal
	// to the whole composite: no partial state.
	season, err := s.provider.Season(ctx, req.SeasonExternalID)
	if err != nil {
		msg := trimErr(err.Error())
		result.Season = &StepResult{Error: msg}
		s.finalize(parent, models.JobStatusFailed, msg, result)
		return
	}

	seasonItems := []Item{{
		ExternalID: season.ExternalID,
		Apply: func(ctx context.Context, dryRun bool) (string, error) {
			return s.stores.Season.Upsert(seasonModel(season), dryRun)
		},
	}}
	result.Season = s.runStep(ctx, parent, KindSeason, seasonItems, req.DryRun)
	seasonOK := result.Season.Error == "" && !(result.Season.Total > 0 && result.Season.OK == 0)

	if req.IncludeTeams {
		result.Teams = s.seedTeams(ctx, parent, req)
	}
	if req.IncludeFixtures {
		result.Fixtures = s.seedFixtures(ctx, parent, req)
	}

	// Teams/fixtures failures are reported but never retroactively fail the
	// season creation.
	status := models.JobStatusSuccess
	lastErr := ""
	if !seasonOK {
		status = models.JobStatusFailed
		lastErr = result.Season.Error
	}
	s.finalize(parent, status, lastErr, result)
}

func (s *Seeder) seedTeams(ctx context.Context, parent *models.SeedBatch, req SeedRequest) *StepResult {
	teams, err := s.provider.TeamsBySeason(ctx, req.SeasonExternalID)
	if err != nil {
		return &StepResult{Error: trimErr(err.Error())}
	}
	items := make([]Item, 0, len(teams))
	for i := range teams {
		dto := teams[i]
		items = append(items, Item{
			ExternalID: dto.ExternalID,
			Apply: func(ctx context.Context, dryRun bool) (string, error) {
				return s.stores.Team.Upsert(teamModel(&dto), dryRun)
			},
		})
	}
	return s.runStep(ctx, parent, KindTeams, items, req.DryRun)
}

func (s *Seeder) seedFixtures(ctx context.Context, parent *models.SeedBatch, req SeedRequest) *StepResult {
	fixtures, err := s.provider.FixturesBySeason(ctx, req.SeasonExternalID, req.FutureOnly)
	if err != nil {
		return &StepResult{Error: trimErr(err.Error())}
	}
	items := make([]Item, 0, len(fixtures))
	for i := range fixtures {
		dto := fixtures[i]
		items = append(items, Item{
			ExternalID: dto.ExternalID,
			Apply: func(ctx context.Context, dryRun bool) (string, error) {
				return s.stores.Fixture.Upsert(fixtureModel(&dto), dryRun)
			},
		})
	}
	return s.runStep(ctx, parent, KindFixtures, items, req.DryRun)
}

// runStep runs one sub-batch with the composite as its parent: the runner
// mirrors every item row and the step total onto the composite, so its
// counters stay reconciled with its own items.
func (s *Seeder) runStep(ctx context.Context, parent *models.SeedBatch, kind string, items []Item, dryRun bool) *StepResult {
	res, err := s.runner.Run(ctx, kind, items, Options{DryRun: dryRun, ParentID: parent.ID})
	if err != nil {
		return &StepResult{Error: trimErr(err.Error())}
	}
	return &StepResult{BatchID: res.BatchID, OK: res.OK, Fail: res.Fail, Total: res.Total}
}

func (s *Seeder) finalize(parent *models.SeedBatch, status, lastErr string, result SeedSeasonResult) {
	meta, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("Failed to encode seed result",
			zap.String("batch_id", parent.BatchID), zap.Error(err))
		meta = []byte("{}")
	}
	if err := s.stores.Batch.Finalize(parent.ID, status, lastErr, string(meta)); err != nil {
		s.logger.Error("Failed to finalize seed batch",
			zap.String("batch_id", parent.BatchID), zap.Error(err))
	}
}

func seasonModel(dto *provider.SeasonDTO) *models.Season {
	start, _ := time.Parse("2006-01-02", dto.StartDate)
	end, _ := time.Parse("2006-01-02", dto.EndDate)
	return &models.Season{
		ExternalID:       dto.ExternalID,
		LeagueExternalID: dto.LeagueID,
		Year:             dto.Year,
		StartDate:        start,
		EndDate:          end,
		Current:          dto.Current,
	}
}

func teamModel(dto *provider.TeamDTO) *models.Team {
	return &models.Team{
		ExternalID: dto.ExternalID,
		Name:       dto.Name,
		ShortCode:  dto.ShortCode,
		Country:    dto.Country,
		Founded:    dto.Founded,
		LogoURL:    dto.Logo,
	}
}

func fixtureModel(dto *provider.FixtureDTO) *models.Fixture {
	return &models.Fixture{
		ExternalID:       dto.ExternalID,
		SeasonExternalID: dto.SeasonID,
		HomeExternalID:   dto.HomeID,
		AwayExternalID:   dto.AwayID,
		HomeName:         dto.HomeName,
		AwayName:         dto.AwayName,
		KickoffAt:        dto.KickoffAt,
		Status:           dto.Status,
		Result:           dto.Result,
		Round:            dto.Round,
		Venue:            dto.Venue,
	}
}
