package repository

import (
	"errors"

	"gorm.io/gorm"

	"scoresync/internal/models"
)

// FixtureRepository handles fixture database operations.
type FixtureRepository struct {
	db *gorm.DB
}

func NewFixtureRepository(db *gorm.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

// Upsert writes a fixture keyed by external id and reports the action taken.
func (r *FixtureRepository) Upsert(in *models.Fixture, dryRun bool) (string, error) {
	var existing models.Fixture
	err := r.db.Where("external_id = ?", in.ExternalID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if dryRun {
			return models.ActionInserted, nil
		}
		if err := r.db.Create(in).Error; err != nil {
			return models.ActionFailed, err
		}
		return models.ActionInserted, nil
	case err != nil:
		return models.ActionFailed, err
	}

	if existing.Status == in.Status && existing.Result == in.Result &&
		existing.KickoffAt.Equal(in.KickoffAt) && existing.HomeName == in.HomeName &&
		existing.AwayName == in.AwayName && existing.Round == in.Round &&
		existing.Venue == in.Venue {
		return models.ActionSkipped, nil
	}
	if dryRun {
		return models.ActionUpdated, nil
	}
	err = r.db.Model(&models.Fixture{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
		"status":     in.Status,
		"result":     in.Result,
		"kickoff_at": in.KickoffAt,
		"home_name":  in.HomeName,
		"away_name":  in.AwayName,
		"round":      in.Round,
		"venue":      in.Venue,
	}).Error
	if err != nil {
		return models.ActionFailed, err
	}
	return models.ActionUpdated, nil
}

// FindAll returns fixtures with pagination, optionally filtered by season.
func (r *FixtureRepository) FindAll(limit, page int, seasonExternalID string) ([]models.Fixture, int64, error) {
	var out []models.Fixture
	var total int64

	db := r.db.Model(&models.Fixture{})
	if seasonExternalID != "" {
		db = db.Where("season_external_id = ?", seasonExternalID)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(limit, page)
	if err := db.Order("kickoff_at DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Snapshot returns fixtures for reconciliation, optionally scoped to a season.
func (r *FixtureRepository) Snapshot(seasonExternalID string) ([]models.Fixture, error) {
	var out []models.Fixture
	db := r.db
	if seasonExternalID != "" {
		db = db.Where("season_external_id = ?", seasonExternalID)
	}
	err := db.Find(&out).Error
	return out, err
}
