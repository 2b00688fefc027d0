package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"scoresync/internal/bootstrap"
	"scoresync/internal/config"
	cronpkg "scoresync/internal/cron"
	"scoresync/internal/poller"
	"scoresync/internal/provider"
	"scoresync/internal/repository"
	"scoresync/internal/router"
	"scoresync/internal/syncer"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if hasArg("--bootstrap-db") {
		if err := runDBBootstrap(logger); err != nil {
			logger.Fatal("Database bootstrap failed", zap.Error(err))
		}
		logger.Info("Database bootstrap completed")
		return
	}

	if seasonID, ok := argValue("--seed-season"); ok {
		if err := runSeedAndWait(logger, seasonID); err != nil {
			logger.Fatal("Seed run failed", zap.Error(err))
		}
		return
	}

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.MigrateAndSeed(db); err != nil {
		logger.Fatal("Failed to bootstrap database schema", zap.Error(err))
	}

	// --- Provider ---
	providerClient := provider.NewFootballClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Timeout)

	// --- Seed guard (Redis with in-memory fallback) ---
	guard, guardErr := syncer.NewActiveGuard(cfg.Redis.Addr, cfg.Redis.Pass, cfg.Redis.DB, cfg.Sync.GuardTTL)
	if guardErr != nil {
		logger.Warn("Redis unavailable for seed guard, using in-memory fallback", zap.Error(guardErr))
	}

	// --- Sync components ---
	batchRepo := repository.NewSeedBatchRepository(db)
	runner := syncer.NewRunner(batchRepo, logger)
	seeder := syncer.NewSeeder(providerClient, runner, syncer.SeederStores{
		Batch:   batchRepo,
		Season:  repository.NewSeasonRepository(db),
		Team:    repository.NewTeamRepository(db),
		Fixture: repository.NewFixtureRepository(db),
	}, guard, logger)
	statusService := syncer.NewStatusService(batchRepo)
	refresher := syncer.NewRefresher(providerClient, runner, syncer.RefreshStores{
		Country:   repository.NewCountryRepository(db),
		League:    repository.NewLeagueRepository(db),
		Bookmaker: repository.NewBookmakerRepository(db),
		Fixture:   repository.NewFixtureRepository(db),
	}, logger)

	// --- Cron Scheduler ---
	scheduler := cronpkg.New(repository.NewJobRepository(db), refresher, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start cron scheduler", zap.Error(err))
	}

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true

	router.Setup(e, router.Deps{
		DB:       db,
		Provider: providerClient,
		Seeder:   seeder,
		Status:   statusService,
		Trigger:  scheduler,
		APIKey:   cfg.API.Key,
		Logger:   logger,
	})

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting scoresync server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func hasArg(name string) bool {
	for _, arg := range os.Args[1:] {
		if arg == name {
			return true
		}
	}
	return false
}

func argValue(name string) (string, bool) {
	for i, arg := range os.Args[1:] {
		if arg == name && i+2 < len(os.Args) {
			return os.Args[i+2], true
		}
	}
	return "", false
}

// runSeedAndWait drives one seed-season job through the sync API and blocks
// until the job reaches a terminal state. Polling bounds come from the same
// SYNC_POLL_* settings the defaults document.
func runSeedAndWait(logger *zap.Logger, seasonID string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	base := cfg.API.BaseURL
	if base == "" {
		base = fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	}

	client := poller.NewAPIClient(base, cfg.API.Key, cfg.Sync.PollInterval)
	ctrl := poller.NewController(client, poller.Options{
		Interval:             cfg.Sync.PollInterval,
		MaxAttempts:          cfg.Sync.PollMaxAttempts,
		MaxConsecutiveErrors: cfg.Sync.PollMaxErrors,
	}, logger)

	jobID, err := ctrl.Start(context.Background(), syncer.SeedRequest{
		SeasonExternalID: seasonID,
		IncludeTeams:     true,
		IncludeFixtures:  true,
		FutureOnly:       hasArg("--future-only"),
		DryRun:           hasArg("--dry-run"),
	})
	if err != nil {
		return err
	}
	logger.Info("Seed job accepted, polling for completion",
		zap.String("job_id", jobID), zap.String("season", seasonID))

	<-ctrl.Done()
	snap := ctrl.Snapshot()
	if snap.State != poller.StateCompleted {
		return fmt.Errorf("seed job %s ended %s (%s): %s", jobID, snap.State, snap.Reason, snap.Err)
	}
	logger.Info("Seed job completed",
		zap.String("job_id", jobID),
		zap.Int("attempts", snap.Attempts),
		zap.ByteString("result", snap.Result))
	return nil
}

func runDBBootstrap(logger *zap.Logger) error {
	dbCfg, err := config.LoadDatabaseOnly()
	if err != nil {
		return err
	}
	db, err := config.NewDatabase(dbCfg)
	if err != nil {
		return err
	}
	if err := bootstrap.MigrateAndSeed(db); err != nil {
		return err
	}
	logger.Info("Schema migration and default seed completed")
	return nil
}
