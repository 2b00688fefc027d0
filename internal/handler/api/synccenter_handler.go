package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"scoresync/internal/provider"
	"scoresync/internal/reconcile"
	"scoresync/internal/syncer"
)

// SyncCenterHandler serves the reconciliation views: what the database holds,
// what the provider holds, and the unified diff between the two.
type SyncCenterHandler struct {
	repos    *Repos
	provider provider.Client
	logger   *zap.Logger
}

func NewSyncCenterHandler(repos *Repos, p provider.Client, logger *zap.Logger) *SyncCenterHandler {
	return &SyncCenterHandler{repos: repos, provider: p, logger: logger}
}

// Entities with a reconciliation view. Seasons are scoped by ?league, teams
// and fixtures by ?season, odds by ?fixture.
const (
	entityCountries  = "countries"
	entityLeagues    = "leagues"
	entityTeams      = "teams"
	entitySeasons    = "seasons"
	entityFixtures   = "fixtures"
	entityBookmakers = "bookmakers"
	entityOdds       = "odds"
)

// DB lists database rows for one entity.
// GET /api/sync-center/db/:entity
func (h *SyncCenterHandler) DB(c echo.Context) error {
	entity := c.Param("entity")
	limit, page := parsePaging(c)

	var (
		data  interface{}
		total int64
		err   error
	)
	switch entity {
	case entityCountries:
		data, total, err = h.repos.Country.FindAll(limit, page, c.QueryParam("q"))
	case entityLeagues:
		data, total, err = h.repos.League.FindAll(limit, page, c.QueryParam("q"))
	case entityTeams:
		data, total, err = h.repos.Team.FindAll(limit, page, c.QueryParam("q"))
	case entitySeasons:
		data, total, err = h.repos.Season.FindAll(limit, page, c.QueryParam("league"))
	case entityFixtures:
		data, total, err = h.repos.Fixture.FindAll(limit, page, c.QueryParam("season"))
	case entityBookmakers:
		data, total, err = h.repos.Bookmaker.FindAll(limit, page, c.QueryParam("q"))
	case entityOdds:
		data, total, err = h.repos.Odds.FindAll(limit, page, c.QueryParam("fixture"))
	default:
		return errorResponse(c, http.StatusNotFound, "Unknown entity: "+entity)
	}
	if err != nil {
		h.logger.Error("Failed to list entity rows", zap.String("entity", entity), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to list "+entity)
	}
	return successResponse(c, "", paginatedResponse(data, total, page, limit))
}

// Provider lists the provider's current snapshot for one entity.
// GET /api/sync-center/provider/:entity
func (h *SyncCenterHandler) Provider(c echo.Context) error {
	entity := c.Param("entity")
	records, err := h.providerRecords(c.Request().Context(), entity, c)
	if err != nil {
		return h.snapshotError(c, entity, "provider", err)
	}
	return successResponse(c, "", records)
}

// Diff reconciles the database against the provider for one entity and
// returns the unified rows plus a summary.
// GET /api/sync-center/diff/:entity
func (h *SyncCenterHandler) Diff(c echo.Context) error {
	entity := c.Param("entity")
	ctx := c.Request().Context()

	dbRecords, err := h.dbRecords(entity, c)
	if err != nil {
		return h.snapshotError(c, entity, "database", err)
	}
	provRecords, err := h.providerRecords(ctx, entity, c)
	if err != nil {
		return h.snapshotError(c, entity, "provider", err)
	}

	opts := reconcile.Options{SortBy: reconcile.SortField(c.QueryParam("sort"))}
	unified := reconcile.Reconcile(dbRecords, provRecords, opts)
	return successResponse(c, "", map[string]interface{}{
		"summary": reconcile.Summarize(unified),
		"rows":    unified,
	})
}

var errBadEntity = fmt.Errorf("unknown entity")

type scopeError struct{ param string }

func (e scopeError) Error() string { return e.param + " query param is required" }

func (h *SyncCenterHandler) snapshotError(c echo.Context, entity, side string, err error) error {
	if err == errBadEntity {
		return errorResponse(c, http.StatusNotFound, "Unknown entity: "+entity)
	}
	if se, ok := err.(scopeError); ok {
		return errorResponse(c, http.StatusBadRequest, se.Error())
	}
	h.logger.Error("Failed to load snapshot",
		zap.String("entity", entity), zap.String("side", side), zap.Error(err))
	return errorResponse(c, http.StatusBadGateway, "Failed to load "+side+" snapshot for "+entity)
}

func (h *SyncCenterHandler) dbRecords(entity string, c echo.Context) ([]reconcile.Record, error) {
	switch entity {
	case entityCountries:
		rows, err := h.repos.Country.Snapshot()
		return syncer.CountryRecords(rows), err
	case entityLeagues:
		rows, err := h.repos.League.Snapshot()
		return syncer.LeagueRecords(rows), err
	case entityTeams:
		rows, err := h.repos.Team.Snapshot()
		return syncer.TeamRecords(rows), err
	case entitySeasons:
		rows, err := h.repos.Season.Snapshot(c.QueryParam("league"))
		return syncer.SeasonRecords(rows), err
	case entityFixtures:
		season := c.QueryParam("season")
		if season == "" {
			return nil, scopeError{"season"}
		}
		rows, err := h.repos.Fixture.Snapshot(season)
		return syncer.FixtureRecords(rows), err
	case entityBookmakers:
		rows, err := h.repos.Bookmaker.Snapshot()
		return syncer.BookmakerRecords(rows), err
	case entityOdds:
		fixture := c.QueryParam("fixture")
		if fixture == "" {
			return nil, scopeError{"fixture"}
		}
		rows, err := h.repos.Odds.Snapshot(fixture)
		return syncer.OddsRecords(rows), err
	}
	return nil, errBadEntity
}

func (h *SyncCenterHandler) providerRecords(ctx context.Context, entity string, c echo.Context) ([]reconcile.Record, error) {
	switch entity {
	case entityCountries:
		dtos, err := h.provider.Countries(ctx)
		return syncer.CountryDTORecords(dtos), err
	case entityLeagues:
		dtos, err := h.provider.Leagues(ctx)
		return syncer.LeagueDTORecords(dtos), err
	case entityTeams:
		season := c.QueryParam("season")
		if season == "" {
			return nil, scopeError{"season"}
		}
		dtos, err := h.provider.TeamsBySeason(ctx, season)
		return syncer.TeamDTORecords(dtos), err
	case entitySeasons:
		league := c.QueryParam("league")
		if league == "" {
			return nil, scopeError{"league"}
		}
		dtos, err := h.provider.SeasonsByLeague(ctx, league)
		return syncer.SeasonDTORecords(dtos), err
	case entityFixtures:
		season := c.QueryParam("season")
		if season == "" {
			return nil, scopeError{"season"}
		}
		dtos, err := h.provider.FixturesBySeason(ctx, season, queryBool(c, "futureOnly"))
		return syncer.FixtureDTORecords(dtos), err
	case entityBookmakers:
		dtos, err := h.provider.Bookmakers(ctx)
		return syncer.BookmakerDTORecords(dtos), err
	case entityOdds:
		fixture := c.QueryParam("fixture")
		if fixture == "" {
			return nil, scopeError{"fixture"}
		}
		dtos, err := h.provider.OddsByFixture(ctx, fixture)
		return syncer.OddsDTORecords(dtos), err
	}
	return nil, errBadEntity
}
