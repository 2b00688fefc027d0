package provider

import (
	"context"
	"time"
)

// CountryDTO is a country as returned by the provider. The ISO-style code is
// the stable external id.
type CountryDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// LeagueDTO is a league/cup competition.
type LeagueDTO struct {
	ExternalID  string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	CountryCode string `json:"country_code"`
	Logo        string `json:"logo"`
}

// TeamDTO is a club side.
type TeamDTO struct {
	ExternalID string `json:"id"`
	Name       string `json:"name"`
	ShortCode  string `json:"code"`
	Country    string `json:"country"`
	Founded    int    `json:"founded"`
	Logo       string `json:"logo"`
}

// SeasonDTO is one season of a league.
type SeasonDTO struct {
	ExternalID string `json:"id"`
	LeagueID   string `json:"league_id"`
	Year       int    `json:"year"`
	StartDate  string `json:"start"` // YYYY-MM-DD
	EndDate    string `json:"end"`
	Current    bool   `json:"current"`
}

// FixtureDTO is one match. Result is "home:away" once finished.
type FixtureDTO struct {
	ExternalID string    `json:"id"`
	SeasonID   string    `json:"season_id"`
	HomeID     string    `json:"home_id"`
	AwayID     string    `json:"away_id"`
	HomeName   string    `json:"home_name"`
	AwayName   string    `json:"away_name"`
	KickoffAt  time.Time `json:"kickoff_at"`
	Status     string    `json:"status"`
	Result     string    `json:"result"`
	Round      string    `json:"round"`
	Venue      string    `json:"venue"`
}

// BookmakerDTO is a bookmaker known to the provider.
type BookmakerDTO struct {
	ExternalID string `json:"id"`
	Name       string `json:"name"`
}

// OddsDTO is one bookmaker quote for a fixture market selection.
type OddsDTO struct {
	ExternalID  string    `json:"id"`
	FixtureID   string    `json:"fixture_id"`
	BookmakerID string    `json:"bookmaker_id"`
	Market      string    `json:"market"`
	Selection   string    `json:"selection"`
	Price       float64   `json:"price"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Client is the upstream data provider. Failures are opaque I/O errors; callers
// treat any non-nil error as "snapshot unavailable".
type Client interface {
	// Countries returns the full country list.
	Countries(ctx context.Context) ([]CountryDTO, error)

	// Leagues returns the full league list.
	Leagues(ctx context.Context) ([]LeagueDTO, error)

	// Bookmakers returns the full bookmaker list.
	Bookmakers(ctx context.Context) ([]BookmakerDTO, error)

	// Season resolves a single season by external id.
	Season(ctx context.Context, externalID string) (*SeasonDTO, error)

	// SeasonsByLeague returns all seasons of a league.
	SeasonsByLeague(ctx context.Context, leagueExternalID string) ([]SeasonDTO, error)

	// TeamsBySeason returns the teams participating in a season.
	TeamsBySeason(ctx context.Context, seasonExternalID string) ([]TeamDTO, error)

	// FixturesBySeason returns the fixtures of a season. With futureOnly only
	// fixtures kicking off after now are returned.
	FixturesBySeason(ctx context.Context, seasonExternalID string, futureOnly bool) ([]FixtureDTO, error)

	// FixturesByDate returns all fixtures kicking off on the given day.
	FixturesByDate(ctx context.Context, day time.Time) ([]FixtureDTO, error)

	// OddsByFixture returns current quotes for one fixture.
	OddsByFixture(ctx context.Context, fixtureExternalID string) ([]OddsDTO, error)
}
