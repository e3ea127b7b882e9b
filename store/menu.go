package store

import (
	"context"

	"restaurant-pos/models"
)

func (s *GormStore) ListMenuItems(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	query := s.db.WithContext(ctx)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AvailableOnly {
		query = query.Where("available = ?", true)
	}
	items := []models.MenuItem{}
	err := query.Order("created_at asc").Order("id asc").Find(&items).Error
	return items, err
}

func (s *GormStore) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *GormStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *GormStore) SaveMenuItem(ctx context.Context, item *models.MenuItem) error {
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *GormStore) DeleteMenuItem(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
