package syncer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"scoresync/internal/models"
	"scoresync/internal/provider"
)

// Refresh batch kinds.
const (
	KindCountries     = "countries"
	KindLeagues       = "leagues"
	KindBookmakers    = "bookmakers"
	KindFixturesToday = "fixtures-today"
)

type CountryUpserter interface {
	Upsert(in *models.Country, dryRun bool) (string, error)
}

type LeagueUpserter interface {
	Upsert(in *models.League, dryRun bool) (string, error)
}

type BookmakerUpserter interface {
	Upsert(in *models.Bookmaker, dryRun bool) (string, error)
}

// RefreshStores bundles the store writes the refresher needs.
type RefreshStores struct {
	Country   CountryUpserter
	League    LeagueUpserter
	Bookmaker BookmakerUpserter
	Fixture   FixtureUpserter
}

// Refresher pulls full provider snapshots of the flat reference entities and
// upserts them through per-item-isolated batches. Scheduled jobs and manual
// triggers both run through it.
type Refresher struct {
	provider provider.Client
	runner   *Runner
	stores   RefreshStores
	logger   *zap.Logger
}

func NewRefresher(p provider.Client, runner *Runner, stores RefreshStores, logger *zap.Logger) *Refresher {
	return &Refresher{provider: p, runner: runner, stores: stores, logger: logger}
}

// RefreshCountries syncs the provider's country list.
func (r *Refresher) RefreshCountries(ctx context.Context) (Result, error) {
	dtos, err := r.provider.Countries(ctx)
	if err != nil {
		return Result{}, err
	}
	items := make([]Item, 0, len(dtos))
	for i := range dtos {
		dto := dtos[i]
		items = append(items, Item{
			ExternalID: dto.Code,
			Apply: func(ctx context.Context, dryRun bool) (string, error) {
				return r.stores.Country.Upsert(countryModel(&dto), dryRun)
			},
		})
	}
	return r.runner.Run(ctx, KindCountries, items, Options{})
}

// RefreshLeagues syncs the provider's league list.
func (r *Refresher) RefreshLeagues(ctx context.Context) (Result, error) {
	dtos, err := r.provider.Leagues(ctx)
	if err != nil {
		return Result{}, err
	}
	items := make([]Item, 0, len(dtos))
	for i := range dtos {
		dto := dtos[i]
		items = append(items, Item{
			ExternalID: dto.ExternalID,
			Apply: func(ctx context.Context, dryRun bool) (string, error) {
				return r.stores.League.Upsert(leagueModel(&dto), dryRun)
			},
		})
	}
	return r.runner.Run(ctx, KindLeagues, items, Options{})
}

// RefreshBookmakers syncs the provider's bookmaker list.
func (r *Refresher) RefreshBookmakers(ctx context.Context) (Result, error) {
	dtos, err := r.provider.Bookmakers(ctx)
	if err != nil {
		return Result{}, err
	}
	items := make([]Item, 0, len(dtos))
	for i := range dtos {
		dto := dtos[i]
		items = append(items, Item{
			ExternalID: dto.ExternalID,
			Apply: func(ctx context.Context, dryRun bool) (string, error) {
				return r.stores.Bookmaker.Upsert(bookmakerModel(&dto), dryRun)
			},
		})
	}
	return r.runner.Run(ctx, KindBookmakers, items, Options{})
}

// RefreshFixturesByDate syncs every fixture kicking off on the given day,
// picking up score and status changes for live and finished matches.
func (r *Refresher) RefreshFixturesByDate(ctx context.Context, day time.Time) (Result, error) {
	dtos, err := r.provider.FixturesByDate(ctx, day)
	if err != nil {
		return Result{}, err
	}
	items := make([]Item, 0, len(dtos))
	for i := range dtos {
		dto := dtos[i]
		items = append(items, Item{
			ExternalID: dto.ExternalID,
			Apply: func(ctx context.Context, dryRun bool) (string, error) {
				return r.stores.Fixture.Upsert(fixtureModel(&dto), dryRun)
			},
		})
	}
	return r.runner.Run(ctx, KindFixturesToday, items, Options{})
}

func countryModel(dto *provider.CountryDTO) *models.Country {
	return &models.Country{
		ExternalID: dto.Code,
		Name:       dto.Name,
		Code:       dto.Code,
		FlagURL:    dto.Flag,
	}
}

func leagueModel(dto *provider.LeagueDTO) *models.League {
	return &models.League{
		ExternalID:  dto.ExternalID,
		Name:        dto.Name,
		Type:        dto.Type,
		CountryCode: dto.CountryCode,
		LogoURL:     dto.Logo,
	}
}

func bookmakerModel(dto *provider.BookmakerDTO) *models.Bookmaker {
	return &models.Bookmaker{
		ExternalID: dto.ExternalID,
		Name:       dto.Name,
	}
}
