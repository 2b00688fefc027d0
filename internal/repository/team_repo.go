package repository

import (
	"errors"

	"gorm.io/gorm"

	"scoresync/internal/models"
)

// TeamRepository handles team database operations.
type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Upsert writes a team keyed by external id and reports the action taken.
func (r *TeamRepository) Upsert(in *models.Team, dryRun bool) (string, error) {
	var existing models.Team
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

	if existing.Name == in.Name && existing.ShortCode == in.ShortCode &&
		existing.Country == in.Country && existing.Founded == in.Founded &&
		existing.LogoURL == in.LogoURL {
		return models.ActionSkipped, nil
	}
	if dryRun {
		return models.ActionUpdated, nil
	}
	err = r.db.Model(&models.Team{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
		"name":       in.Name,
		"short_code": in.ShortCode,
		"country":    in.Country,
		"founded":    in.Founded,
		"logo_url":   in.LogoURL,
	}).Error
	if err != nil {
		return models.ActionFailed, err
	}
	return models.ActionUpdated, nil
}

// FindAll returns teams with pagination and search.
func (r *TeamRepository) FindAll(limit, page int, query string) ([]models.Team, int64, error) {
	var out []models.Team
	var total int64

	db := r.db.Model(&models.Team{})
	if query != "" {
		search := "%" + query + "%"
		db = db.Where("name LIKE ? OR short_code LIKE ?", search, search)
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

// Snapshot returns every team for reconciliation.
func (r *TeamRepository) Snapshot() ([]models.Team, error) {
	var out []models.Team
	err := r.db.Find(&out).Error
	return out, err
}
