package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scoresync/internal/pkg/httpclient"
)

// ErrNotFound is returned when the provider has no record for the requested id.
var ErrNotFound = errors.New("provider: entity not found")

// FootballClient implements Client against a football-data REST API that wraps
// every payload in {"response": ..., "error": ...} and authenticates with an
// API key header.
type FootballClient struct {
	baseURL string
	client  *httpclient.Client
}

// NewFootballClient creates a provider client.
func NewFootballClient(baseURL, apiKey string, timeout time.Duration) *FootballClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FootballClient{
		baseURL: baseURL,
		client: httpclient.New().
			WithBaseURL(baseURL).
			WithTimeout(timeout).
			WithHeader("X-API-Key", apiKey),
	}
}

type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    string          `json:"error"`
}

// fetch GETs a path and decodes the response envelope into out.
func (f *FootballClient) fetch(_ context.Context, path string, query map[string]string, out interface{}) error {
	raw, err := f.client.Get(path, query)
	if err != nil {
		return fmt.Errorf("provider request %s failed: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("provider response %s parse error: %w", path, err)
	}
	if env.Error != "" {
		return fmt.Errorf("provider error on %s: %s", path, env.Error)
	}
	if len(env.Response) == 0 {
		return fmt.Errorf("provider response %s missing payload", path)
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return fmt.Errorf("provider payload %s parse error: %w", path, err)
	}
	return nil
}

func (f *FootballClient) Countries(ctx context.Context) ([]CountryDTO, error) {
	var out []CountryDTO
	if err := f.fetch(ctx, "/countries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FootballClient) Leagues(ctx context.Context) ([]LeagueDTO, error) {
	var out []LeagueDTO
	if err := f.fetch(ctx, "/leagues", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FootballClient) Bookmakers(ctx context.Context) ([]BookmakerDTO, error) {
	var out []BookmakerDTO
	if err := f.fetch(ctx, "/odds/bookmakers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FootballClient) Season(ctx context.Context, externalID string) (*SeasonDTO, error) {
	var out []SeasonDTO
	if err := f.fetch(ctx, "/seasons", map[string]string{"id": externalID}, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("season %s: %w", externalID, ErrNotFound)
	}
	return &out[0], nil
}

func (f *FootballClient) SeasonsByLeague(ctx context.Context, leagueExternalID string) ([]SeasonDTO, error) {
	var out []SeasonDTO
	if err := f.fetch(ctx, "/seasons", map[string]string{"league": leagueExternalID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FootballClient) TeamsBySeason(ctx context.Context, seasonExternalID string) ([]TeamDTO, error) {
	var out []TeamDTO
	if err := f.fetch(ctx, "/teams", map[string]string{"season": seasonExternalID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FootballClient) FixturesBySeason(ctx context.Context, seasonExternalID string, futureOnly bool) ([]FixtureDTO, error) {
	var out []FixtureDTO
	if err := f.fetch(ctx, "/fixtures", map[string]string{"season": seasonExternalID}, &out); err != nil {
		return nil, err
	}
	if !futureOnly {
		return out, nil
	}
	now := time.Now()
	filtered := out[:0]
	for _, fx := range out {
		if fx.KickoffAt.After(now) {
			filtered = append(filtered, fx)
		}
	}
	return filtered, nil
}

func (f *FootballClient) FixturesByDate(ctx context.Context, day time.Time) ([]FixtureDTO, error) {
	var out []FixtureDTO
	q := map[string]string{"date": day.Format("2006-01-02")}
	if err := f.fetch(ctx, "/fixtures", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FootballClient) OddsByFixture(ctx context.Context, fixtureExternalID string) ([]OddsDTO, error) {
	var out []OddsDTO
	if err := f.fetch(ctx, "/odds", map[string]string{"fixture": fixtureExternalID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
