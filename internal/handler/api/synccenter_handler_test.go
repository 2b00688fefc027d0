package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scoresync/internal/provider"
)

var errNotStubbed = errors.New("not stubbed")

type stubProviderClient struct {
	countries func(ctx context.Context) ([]provider.CountryDTO, error)
	teams     func(ctx context.Context, seasonID string) ([]provider.TeamDTO, error)
}

func (s *stubProviderClient) Countries(ctx context.Context) ([]provider.CountryDTO, error) {
	if s.countries != nil {
		return s.countries(ctx)
	}
	return nil, errNotStubbed
}

func (s *stubProviderClient) Leagues(context.Context) ([]provider.LeagueDTO, error) {
	return nil, errNotStubbed
}

func (s *stubProviderClient) Bookmakers(context.Context) ([]provider.BookmakerDTO, error) {
	return nil, errNotStubbed
}

func (s *stubProviderClient) Season(context.Context, string) (*provider.SeasonDTO, error) {
	return nil, errNotStubbed
}

func (s *stubProviderClient) SeasonsByLeague(context.Context, string) ([]provider.SeasonDTO, error) {
	return nil, errNotStubbed
}

func (s *stubProviderClient) TeamsBySeason(ctx context.Context, seasonID string) ([]provider.TeamDTO, error) {
	if s.teams != nil {
		return s.teams(ctx, seasonID)
	}
	return nil, errNotStubbed
}

func (s *stubProviderClient) FixturesBySeason(context.Context, string, bool) ([]provider.FixtureDTO, error) {
	return nil, errNotStubbed
}

func (s *stubProviderClient) FixturesByDate(context.Context, time.Time) ([]provider.FixtureDTO, error) {
	return nil, errNotStubbed
}

func (s *stubProviderClient) OddsByFixture(context.Context, string) ([]provider.OddsDTO, error) {
	return nil, errNotStubbed
}

func getEntity(t *testing.T, handler echo.HandlerFunc, entity, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	target := "/"
	if query != "" {
		target += "?" + query
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("entity")
	c.SetParamValues(entity)
	require.NoError(t, handler(c))
	return rec
}

func TestProviderViewCountries(t *testing.T) {
	h := NewSyncCenterHandler(nil, &stubProviderClient{
		countries: func(context.Context) ([]provider.CountryDTO, error) {
			return []provider.CountryDTO{
				{Code: "DE", Name: "Germany"},
				{Code: "FR", Name: "France"},
			}, nil
		},
	}, zap.NewNop())

	rec := getEntity(t, h.Provider, "countries", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Obj []struct {
			ExternalID string `json:"external_id"`
			Name       string `json:"name"`
		} `json:"obj"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Obj, 2)
	assert.Equal(t, "DE", resp.Obj[0].ExternalID)
}

func TestProviderViewUnknownEntity(t *testing.T) {
	h := NewSyncCenterHandler(nil, &stubProviderClient{}, zap.NewNop())
	rec := getEntity(t, h.Provider, "planets", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProviderViewTeamsRequireSeason(t *testing.T) {
	h := NewSyncCenterHandler(nil, &stubProviderClient{}, zap.NewNop())
	rec := getEntity(t, h.Provider, "teams", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProviderViewTeamsScoped(t *testing.T) {
	var gotSeason string
	h := NewSyncCenterHandler(nil, &stubProviderClient{
		teams: func(_ context.Context, seasonID string) ([]provider.TeamDTO, error) {
			gotSeason = seasonID
			return []provider.TeamDTO{{ExternalID: "t1", Name: "Arsenal"}}, nil
		},
	}, zap.NewNop())

	rec := getEntity(t, h.Provider, "teams", "season=s9")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s9", gotSeason)
}

func TestProviderViewUpstreamFailure(t *testing.T) {
	h := NewSyncCenterHandler(nil, &stubProviderClient{
		countries: func(context.Context) ([]provider.CountryDTO, error) {
			return nil, errors.New("upstream 503")
		},
	}, zap.NewNop())

	rec := getEntity(t, h.Provider, "countries", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDBViewUnknownEntity(t *testing.T) {
	h := NewSyncCenterHandler(nil, &stubProviderClient{}, zap.NewNop())
	rec := getEntity(t, h.DB, "planets", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
