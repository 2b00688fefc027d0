package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"scoresync/internal/models"
	"scoresync/internal/provider"
)

// fakeBatchStore is an in-memory BatchStore mirroring the repository
// transaction semantics (item row + counter bump together).
type fakeBatchStore struct {
	mu      sync.Mutex
	nextID  uint
	batches map[uint]*models.SeedBatch
	items   map[uint][]models.BatchItem
}

func newFakeBatchStore() *fakeBatchStore {
	return &fakeBatchStore{
		batches: make(map[uint]*models.SeedBatch),
		items:   make(map[uint][]models.BatchItem),
	}
}

func (f *fakeBatchStore) Create(kind string, dryRun bool, itemsTotal int) (*models.SeedBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b := &models.SeedBatch{
		ID:         f.nextID,
		BatchID:    fmt.Sprintf("batch-%d", f.nextID),
		Kind:       kind,
		Status:     models.JobStatusQueued,
		DryRun:     dryRun,
		ItemsTotal: itemsTotal,
	}
	f.batches[b.ID] = b
	return b, nil
}

func (f *fakeBatchStore) MarkRunning(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.batches[id]; ok && b.Status == models.JobStatusQueued {
		b.Status = models.JobStatusRunning
		now := time.Now()
		b.StartedAt = &now
	}
	return nil
}

func (f *fakeBatchStore) AddItem(batchID uint, externalID, action, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.batches[batchID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[batchID] = append(f.items[batchID], models.BatchItem{
		SeedBatchID: batchID,
		ExternalID:  externalID,
		Action:      action,
		Error:       errMsg,
	})
	if action == models.ActionFailed {
		b.ItemsFailed++
		b.LastError = errMsg
	} else {
		b.ItemsSuccess++
	}
	return nil
}

func (f *fakeBatchStore) AddTotal(batchID uint, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, exists := f.batches[batchID]
	if !exists {
		return gorm.ErrRecordNotFound
	}
	b.ItemsTotal += n
	return nil
}

func (f *fakeBatchStore) Finalize(id uint, status, lastError, meta string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.batches[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if b.Status != models.JobStatusQueued && b.Status != models.JobStatusRunning {
		return nil
	}
	b.Status = status
	if lastError != "" {
		b.LastError = lastError
	}
	if meta != "" {
		b.Meta = meta
	}
	now := time.Now()
	b.FinishedAt = &now
	return nil
}

func (f *fakeBatchStore) FindByBatchID(batchID string) (*models.SeedBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.batches {
		if b.BatchID == batchID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBatchStore) byKind(kind string) *models.SeedBatch {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.batches {
		if b.Kind == kind {
			cp := *b
			return &cp
		}
	}
	return nil
}

func (f *fakeBatchStore) itemsFor(id uint) []models.BatchItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.BatchItem(nil), f.items[id]...)
}

// stubProvider implements provider.Client with overridable functions.
type stubProvider struct {
	countries     func(ctx context.Context) ([]provider.CountryDTO, error)
	leagues       func(ctx context.Context) ([]provider.LeagueDTO, error)
	bookmakers    func(ctx context.Context) ([]provider.BookmakerDTO, error)
	season        func(ctx context.Context, id string) (*provider.SeasonDTO, error)
	teams         func(ctx context.Context, id string) ([]provider.TeamDTO, error)
	fixtures      func(ctx context.Context, id string, futureOnly bool) ([]provider.FixtureDTO, error)
	fixturesToday func(ctx context.Context, day time.Time) ([]provider.FixtureDTO, error)
}

var errStubUnused = errors.New("stub: not configured")

func (s *stubProvider) Countries(ctx context.Context) ([]provider.CountryDTO, error) {
	if s.countries == nil {
		return nil, errStubUnused
	}
	return s.countries(ctx)
}

func (s *stubProvider) Leagues(ctx context.Context) ([]provider.LeagueDTO, error) {
	if s.leagues == nil {
		return nil, errStubUnused
	}
	return s.leagues(ctx)
}

func (s *stubProvider) Bookmakers(ctx context.Context) ([]provider.BookmakerDTO, error) {
	if s.bookmakers == nil {
		return nil, errStubUnused
	}
	return s.bookmakers(ctx)
}

func (s *stubProvider) Season(ctx context.Context, id string) (*provider.SeasonDTO, error) {
	if s.season == nil {
		return nil, errStubUnused
	}
	return s.season(ctx, id)
}

func (s *stubProvider) SeasonsByLeague(context.Context, string) ([]provider.SeasonDTO, error) {
	return nil, errStubUnused
}

func (s *stubProvider) TeamsBySeason(ctx context.Context, id string) ([]provider.TeamDTO, error) {
	if s.teams == nil {
		return nil, errStubUnused
	}
	return s.teams(ctx, id)
}

func (s *stubProvider) FixturesBySeason(ctx context.Context, id string, futureOnly bool) ([]provider.FixtureDTO, error) {
	if s.fixtures == nil {
		return nil, errStubUnused
	}
	return s.fixtures(ctx, id, futureOnly)
}

func (s *stubProvider) FixturesByDate(ctx context.Context, day time.Time) ([]provider.FixtureDTO, error) {
	if s.fixturesToday == nil {
		return nil, errStubUnused
	}
	return s.fixturesToday(ctx, day)
}

func (s *stubProvider) OddsByFixture(context.Context, string) ([]provider.OddsDTO, error) {
	return nil, errStubUnused
}

// upsertFunc adapts a function to the upserter interfaces.
type seasonUpsertFunc func(in *models.Season, dryRun bool) (string, error)

func (f seasonUpsertFunc) Upsert(in *models.Season, dryRun bool) (string, error) { return f(in, dryRun) }

type teamUpsertFunc func(in *models.Team, dryRun bool) (string, error)

func (f teamUpsertFunc) Upsert(in *models.Team, dryRun bool) (string, error) { return f(in, dryRun) }

type fixtureUpsertFunc func(in *models.Fixture, dryRun bool) (string, error)

func (f fixtureUpsertFunc) Upsert(in *models.Fixture, dryRun bool) (string, error) {
	return f(in, dryRun)
}
