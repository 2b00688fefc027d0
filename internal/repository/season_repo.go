package repository

import (
	"errors"

	"gorm.io/gorm"

	"scoresync/internal/models"
)

// SeasonRepository handles season database operations.
type SeasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// Upsert writes a season keyed by external id and reports the action taken.
func (r *SeasonRepository) Upsert(in *models.Season, dryRun bool) (string, error) {
	var existing models.Season
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

	if existing.LeagueExternalID == in.LeagueExternalID && existing.Year == in.Year &&
		existing.StartDate.Equal(in.StartDate) && existing.EndDate.Equal(in.EndDate) &&
		existing.Current == in.Current {
		return models.ActionSkipped, nil
	}
	if dryRun {
		return models.ActionUpdated, nil
	}
	err = r.db.Model(&models.Season{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
		"league_external_id": in.LeagueExternalID,
		"year":               in.Year,
		"start_date":         in.StartDate,
		"end_date":           in.EndDate,
		"current":            in.Current,
	}).Error
	if err != nil {
		return models.ActionFailed, err
	}
	return models.ActionUpdated, nil
}

// FindByExternalID returns a season by its provider id.
func (r *SeasonRepository) FindByExternalID(externalID string) (*models.Season, error) {
	var season models.Season
	if err := r.db.Where("external_id = ?", externalID).First(&season).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

// FindAll returns seasons with pagination, optionally filtered by league.
func (r *SeasonRepository) FindAll(limit, page int, leagueExternalID string) ([]models.Season, int64, error) {
	var out []models.Season
	var total int64

	db := r.db.Model(&models.Season{})
	if leagueExternalID != "" {
		db = db.Where("league_external_id = ?", leagueExternalID)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(limit, page)
	if err := db.Order("year DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Snapshot returns seasons for reconciliation, optionally scoped to a league.
func (r *SeasonRepository) Snapshot(leagueExternalID string) ([]models.Season, error) {
	var out []models.Season
	db := r.db
	if leagueExternalID != "" {
		db = db.Where("league_external_id = ?", leagueExternalID)
	}
	err := db.Find(&out).Error
	return out, err
}
