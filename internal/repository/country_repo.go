package repository

import (
	"errors"

	"gorm.io/gorm"

	"scoresync/internal/models"
)

// CountryRepository handles country database operations.
type CountryRepository struct {
	db *gorm.DB
}

func NewCountryRepository(db *gorm.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

// Upsert writes a country keyed by external id and reports the action taken.
// With dryRun the full compare path runs but no row is written.
func (r *CountryRepository) Upsert(in *models.Country, dryRun bool) (string, error) {
	var existing models.Country
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

	if existing.Name == in.Name && existing.Code == in.Code && existing.FlagURL == in.FlagURL {
		return models.ActionSkipped, nil
	}
	if dryRun {
		return models.ActionUpdated, nil
	}
	err = r.db.Model(&models.Country{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
		"name":     in.Name,
		"code":     in.Code,
		"flag_url": in.FlagURL,
	}).Error
	if err != nil {
		return models.ActionFailed, err
	}
	return models.ActionUpdated, nil
}

// FindAll returns countries with pagination and search.
func (r *CountryRepository) FindAll(limit, page int, query string) ([]models.Country, int64, error) {
	var out []models.Country
	var total int64

	db := r.db.Model(&models.Country{})
	if query != "" {
		search := "%" + query + "%"
		db = db.Where("name LIKE ? OR code LIKE ?", search, search)
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

// Snapshot returns every country for reconciliation.
func (r *CountryRepository) Snapshot() ([]models.Country, error) {
	var out []models.Country
	err := r.db.Find(&out).Error
	return out, err
}
