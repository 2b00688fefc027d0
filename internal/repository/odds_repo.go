package repository

import (
	"errors"

	"gorm.io/gorm"

	"scoresync/internal/models"
)

// OddsRepository handles odds database operations.
type OddsRepository struct {
	db *gorm.DB
}

func NewOddsRepository(db *gorm.DB) *OddsRepository {
	return &OddsRepository{db: db}
}

// Upsert writes a quote keyed by external id and reports the action taken.
func (r *OddsRepository) Upsert(in *models.Odds, dryRun bool) (string, error) {
	var existing models.Odds
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

	if existing.Price == in.Price && existing.RecordedAt.Equal(in.RecordedAt) {
		return models.ActionSkipped, nil
	}
	if dryRun {
		return models.ActionUpdated, nil
	}
	err = r.db.Model(&models.Odds{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
		"price":       in.Price,
		"recorded_at": in.RecordedAt,
	}).Error
	if err != nil {
		return models.ActionFailed, err
	}
	return models.ActionUpdated, nil
}

// FindAll returns quotes with pagination, optionally filtered by fixture.
func (r *OddsRepository) FindAll(limit, page int, fixtureExternalID string) ([]models.Odds, int64, error) {
	var out []models.Odds
	var total int64

	db := r.db.Model(&models.Odds{})
	if fixtureExternalID != "" {
		db = db.Where("fixture_external_id = ?", fixtureExternalID)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(limit, page)
	if err := db.Order("recorded_at DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Snapshot returns quotes for reconciliation, optionally scoped to a fixture.
func (r *OddsRepository) Snapshot(fixtureExternalID string) ([]models.Odds, error) {
	var out []models.Odds
	db := r.db
	if fixtureExternalID != "" {
		db = db.Where("fixture_external_id = ?", fixtureExternalID)
	}
	err := db.Find(&out).Error
	return out, err
}
