package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"scoresync/internal/models"
	"scoresync/internal/repository"
)

// Repos bundles the repositories the API handlers read from.
type Repos struct {
	Country   *repository.CountryRepository
	League    *repository.LeagueRepository
	Team      *repository.TeamRepository
	Season    *repository.SeasonRepository
	Fixture   *repository.FixtureRepository
	Bookmaker *repository.BookmakerRepository
	Odds      *repository.OddsRepository
	Batch     *repository.SeedBatchRepository
	Job       *repository.JobRepository
}

func NewRepos(country *repository.CountryRepository, league *repository.LeagueRepository,
	team *repository.TeamRepository, season *repository.SeasonRepository,
	fixture *repository.FixtureRepository, bookmaker *repository.BookmakerRepository,
	odds *repository.OddsRepository, batch *repository.SeedBatchRepository,
	job *repository.JobRepository) *Repos {
	return &Repos{
		Country:   country,
		League:    league,
		Team:      team,
		Season:    season,
		Fixture:   fixture,
		Bookmaker: bookmaker,
		Odds:      odds,
		Batch:     batch,
		Job:       job,
	}
}

// Response helpers. Every endpoint answers with the same envelope.
func successResponse(c echo.Context, msg string, obj interface{}) error {
	return c.JSON(http.StatusOK, models.APIResponse{
		Status: true,
		Msg:    msg,
		Obj:    obj,
	})
}

func acceptedResponse(c echo.Context, msg string, obj interface{}) error {
	return c.JSON(http.StatusAccepted, models.APIResponse{
		Status: true,
		Msg:    msg,
		Obj:    obj,
	})
}

func errorResponse(c echo.Context, httpStatus int, msg string) error {
	return c.JSON(httpStatus, models.APIResponse{
		Status: false,
		Msg:    msg,
		Obj:    nil,
	})
}

// errorWithCode adds a machine-readable code so clients can branch without
// parsing the message.
func errorWithCode(c echo.Context, httpStatus int, code, msg string) error {
	return c.JSON(httpStatus, models.APIError{
		Status: false,
		Code:   code,
		Msg:    msg,
	})
}

func paginatedResponse(data interface{}, total int64, page, limit int) models.PaginatedResponse {
	return models.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		limit = 50
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}

// parsePaging reads limit/page query params with defaults.
func parsePaging(c echo.Context) (limit, page int) {
	limit = queryInt(c, "limit", 50)
	page = queryInt(c, "page", 1)
	return limit, page
}

func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func queryBool(c echo.Context, name string) bool {
	switch c.QueryParam(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}
