package repository

import (
	"errors"

	"gorm.io/gorm"

	"scoresync/internal/models"
)

// LeagueRepository handles league database operations.
type LeagueRepository struct {
	db *gorm.DB
}

func NewLeagueRepository(db *gorm.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

// Upsert writes a league keyed by external id and reports the action taken.
func (r *LeagueRepository) Upsert(in *models.League, dryRun bool) (string, error) {
	var existing models.League
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

	if existing.Name == in.Name && existing.Type == in.Type &&
		existing.CountryCode == in.CountryCode && existing.LogoURL == in.LogoURL {
		return models.ActionSkipped, nil
	}
	if dryRun {
		return models.ActionUpdated, nil
	}
	err = r.db.Model(&models.League{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
		"name":         in.Name,
		"type":         in.Type,
		"country_code": in.CountryCode,
		"logo_url":     in.LogoURL,
	}).Error
	if err != nil {
		return models.ActionFailed, err
	}
	return models.ActionUpdated, nil
}

// FindAll returns leagues with pagination and search.
func (r *LeagueRepository) FindAll(limit, page int, query string) ([]models.League, int64, error) {
	var out []models.League
	var total int64

	db := r.db.Model(&models.League{})
	if query != "" {
		search := "%" + query + "%"
		db = db.Where("name LIKE ? OR country_code LIKE ?", search, search)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(limit, page)
	if err := db.Order("name ASC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Snapshot returns every league for reconciliation.
func (r *LeagueRepository) Snapshot() ([]models.League, error) {
	var out []models.League
	err := r.db.Find(&out).Error
	return out, err
}
