package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"scoresync/internal/cron"
	"scoresync/internal/models"
	"scoresync/internal/repository"
)

// MigrateAndSeed ensures required tables exist and registers the built-in
// job definitions. Existing job rows keep their admin-edited settings.
func MigrateAndSeed(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	if err := seedJobs(db); err != nil {
		return fmt.Errorf("seed jobs failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		// Reference entities
		&models.Country{},
		&models.League{},
		&models.Team{},
		&models.Season{},
		&models.Fixture{},
		&models.Bookmaker{},
		&models.Odds{},
		// Batch audit
		&models.SeedBatch{},
		&models.BatchItem{},
		// Jobs
		&models.Job{},
		&models.JobRun{},
	}
}

func seedJobs(db *gorm.DB) error {
	jobs := repository.NewJobRepository(db)
	for _, def := range cron.DefaultJobs() {
		if err := jobs.EnsureJob(def.Key, def.Description, def.Schedule); err != nil {
			return err
		}
	}
	return nil
}
