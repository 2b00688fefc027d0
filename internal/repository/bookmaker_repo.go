package repository

import (
	"errors"

	"gorm.io/gorm"

	"scoresync/internal/models"
)

// BookmakerRepository handles bookmaker database operations.
type BookmakerRepository struct {
	db *gorm.DB
}

func NewBookmakerRepository(db *gorm.DB) *BookmakerRepository {
	return &BookmakerRepository{db: db}
}

// Upsert writes a bookmaker keyed by external id and reports the action taken.
func (r *BookmakerRepository) Upsert(in *models.Bookmaker, dryRun bool) (string, error) {
	var existing models.Bookmaker
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

	if existing.Name == in.Name {
		return models.ActionSkipped, nil
	}
	if dryRun {
		return models.ActionUpdated, nil
	}
	if err := r.db.Model(&models.Bookmaker{}).Where("id = ?", existing.ID).
		Update("name", in.Name).Error; err != nil {
		return models.ActionFailed, err
	}
	return models.ActionUpdated, nil
}

// FindAll returns bookmakers with pagination and search.
func (r *BookmakerRepository) FindAll(limit, page int, query string) ([]models.Bookmaker, int64, error) {
	var out []models.Bookmaker
	var total int64

	db := r.db.Model(&models.Bookmaker{})
	if query != "" {
		db = db.Where("name LIKE ?", "%"+query+"%")
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

// Snapshot returns every bookmaker for reconciliation.
func (r *BookmakerRepository) Snapshot() ([]models.Bookmaker, error) {
	var out []models.Bookmaker
	err := r.db.Find(&out).Error
	return out, err
}
