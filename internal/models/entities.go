package models

import "time"

// Reference entities mirrored from the upstream data provider. Every entity keeps
// the provider-assigned identifier in external_id; it is the join key between the
// provider view and the local store and never changes once assigned.

// Country maps to the `countries` table.
type Country struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID string    `gorm:"column:external_id;size:64;uniqueIndex:idx_countries_external_id" json:"external_id"`
	Name       string    `gorm:"column:name;size:255" json:"name"`
	Code       string    `gorm:"column:code;size:8" json:"code"`
	FlagURL    string    `gorm:"column:flag_url;size:500" json:"flag_url"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Country) TableName() string {
	return "countries"
}

// League maps to the `leagues` table.
type League struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID  string    `gorm:"column:external_id;size:64;uniqueIndex:idx_leagues_external_id" json:"external_id"`
	Name        string    `gorm:"column:name;size:255" json:"name"`
	Type        string    `gorm:"column:type;size:32" json:"type"` // league, cup
	CountryCode string    `gorm:"column:country_code;size:8;index:idx_leagues_country" json:"country_code"`
	LogoURL     string    `gorm:"column:logo_url;size:500" json:"logo_url"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (League) TableName() string {
	return "leagues"
}

// Team maps to the `teams` table.
type Team struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID string    `gorm:"column:external_id;size:64;uniqueIndex:idx_teams_external_id" json:"external_id"`
	Name       string    `gorm:"column:name;size:255" json:"name"`
	ShortCode  string    `gorm:"column:short_code;size:16" json:"short_code"`
	Country    string    `gorm:"column:country;size:128" json:"country"`
	Founded    int       `gorm:"column:founded;default:0" json:"founded"`
	LogoURL    string    `gorm:"column:logo_url;size:500" json:"logo_url"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// Season maps to the `seasons` table.
type Season struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID       string    `gorm:"column:external_id;size:64;uniqueIndex:idx_seasons_external_id" json:"external_id"`
	LeagueExternalID string    `gorm:"column:league_external_id;size:64;index:idx_seasons_league" json:"league_external_id"`
	Year             int       `gorm:"column:year" json:"year"`
	StartDate        time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate          time.Time `gorm:"column:end_date" json:"end_date"`
	Current          bool      `gorm:"column:current;default:false" json:"current"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Season) TableName() string {
	return "seasons"
}

// Fixture maps to the `fixtures` table. Result holds the final score in
// "home:away" form once the match finished, empty before that.
type Fixture struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID       string    `gorm:"column:external_id;size:64;uniqueIndex:idx_fixtures_external_id" json:"external_id"`
	SeasonExternalID string    `gorm:"column:season_external_id;size:64;index:idx_fixtures_season" json:"season_external_id"`
	HomeExternalID   string    `gorm:"column:home_external_id;size:64" json:"home_external_id"`
	AwayExternalID   string    `gorm:"column:away_external_id;size:64" json:"away_external_id"`
	HomeName         string    `gorm:"column:home_name;size:255" json:"home_name"`
	AwayName         string    `gorm:"column:away_name;size:255" json:"away_name"`
	KickoffAt        time.Time `gorm:"column:kickoff_at;index:idx_fixtures_kickoff" json:"kickoff_at"`
	Status           string    `gorm:"column:status;size:32" json:"status"` // scheduled, live, finished, postponed, cancelled
	Result           string    `gorm:"column:result;size:16" json:"result"`
	Round            string    `gorm:"column:round;size:64" json:"round"`
	Venue            string    `gorm:"column:venue;size:255" json:"venue"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Fixture) TableName() string {
	return "fixtures"
}

// Bookmaker maps to the `bookmakers` table.
type Bookmaker struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID string    `gorm:"column:external_id;size:64;uniqueIndex:idx_bookmakers_external_id" json:"external_id"`
	Name       string    `gorm:"column:name;size:255" json:"name"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Bookmaker) TableName() string {
	return "bookmakers"
}

// Odds maps to the `odds` table. One row per bookmaker/market/selection quote.
type Odds struct {
	ID                  uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID          string    `gorm:"column:external_id;size:128;uniqueIndex:idx_odds_external_id" json:"external_id"`
	FixtureExternalID   string    `gorm:"column:fixture_external_id;size:64;index:idx_odds_fixture" json:"fixture_external_id"`
	BookmakerExternalID string    `gorm:"column:bookmaker_external_id;size:64" json:"bookmaker_external_id"`
	Market              string    `gorm:"column:market;size:64" json:"market"`
	Selection           string    `gorm:"column:selection;size:64" json:"selection"`
	Price               float64   `gorm:"column:price" json:"price"`
	RecordedAt          time.Time `gorm:"column:recorded_at" json:"recorded_at"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Odds) TableName() string {
	return "odds"
}
