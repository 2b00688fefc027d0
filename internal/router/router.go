package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"scoresync/internal/handler/api"
	"scoresync/internal/middleware"
	"scoresync/internal/provider"
	"scoresync/internal/repository"
	"scoresync/internal/syncer"
)

// Deps carries the wired components the routes need.
type Deps struct {
	DB       *gorm.DB
	Provider provider.Client
	Seeder   *syncer.Seeder
	Status   *syncer.StatusService
	Trigger  api.JobTrigger
	APIKey   string
	Logger   *zap.Logger
}

// Setup configures all routes for the Echo server.
func Setup(e *echo.Echo, deps Deps) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	repos := api.NewRepos(
		repository.NewCountryRepository(deps.DB),
		repository.NewLeagueRepository(deps.DB),
		repository.NewTeamRepository(deps.DB),
		repository.NewSeasonRepository(deps.DB),
		repository.NewFixtureRepository(deps.DB),
		repository.NewBookmakerRepository(deps.DB),
		repository.NewOddsRepository(deps.DB),
		repository.NewSeedBatchRepository(deps.DB),
		repository.NewJobRepository(deps.DB),
	)

	syncHandler := api.NewSyncHandler(deps.Seeder, deps.Status, repos.Batch, deps.Logger)
	centerHandler := api.NewSyncCenterHandler(repos, deps.Provider, deps.Logger)
	jobsHandler := api.NewJobsHandler(repos, deps.Trigger, deps.Logger)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.APIAuth(deps.APIKey))

	// Seed jobs and their polling status.
	apiGroup.POST("/sync/seed-season", syncHandler.SeedSeason)
	apiGroup.GET("/sync/jobs/:jobId/status", syncHandler.JobStatus)
	apiGroup.GET("/sync/batches", syncHandler.ListBatches)
	apiGroup.GET("/sync/batches/:batchId/items", syncHandler.BatchItems)

	// Sync center: db view, provider view, diff per entity.
	apiGroup.GET("/sync-center/db/:entity", centerHandler.DB)
	apiGroup.GET("/sync-center/provider/:entity", centerHandler.Provider)
	apiGroup.GET("/sync-center/diff/:entity", centerHandler.Diff)

	// Job definitions, history and manual triggers.
	apiGroup.GET("/jobs", jobsHandler.List)
	apiGroup.GET("/jobs/:key/runs", jobsHandler.Runs)
	apiGroup.GET("/jobs/runs/:runId/items", jobsHandler.RunItems)
	apiGroup.POST("/jobs/:key/run", jobsHandler.Run)
}
