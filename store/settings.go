package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-pos/models"
)

const settingsRowID = 1

// GetSettings returns the single settings row, creating it with defaults on
// first use. Concurrent first callers race on ON CONFLICT DO NOTHING and all
// read back the same row.
func (s *GormStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	db := s.db.WithContext(ctx)
	var settings models.Settings
	err := db.Where("id = ?", settingsRowID).Take(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.Settings{ID: settingsRowID, Print: models.DefaultPrintSettings()}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
			return nil, err
		}
		err = db.Where("id = ?", settingsRowID).Take(&settings).Error
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *GormStore) SaveSettings(ctx context.Context, settings *models.Settings) error {
	settings.ID = settingsRowID
	return s.db.WithContext(ctx).Save(settings).Error
}
