package store

import (
	"context"

	"gorm.io/gorm/clause"

	"restaurant-pos/models"
)

func (s *GormStore) ListTables(ctx context.Context) ([]models.Table, error) {
	tables := []models.Table{}
	err := s.db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&tables).Error
	return tables, err
}

// GetTable locks the row when called inside a transaction on Postgres
func (s *GormStore) GetTable(ctx context.Context, id string) (*models.Table, error) {
	var table models.Table
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).Take(&table).Error
	if err != nil {
		return nil, translate(err)
	}
	return &table, nil
}

func (s *GormStore) CreateTable(ctx context.Context, table *models.Table) error {
	return s.db.WithContext(ctx).Create(table).Error
}

func (s *GormStore) SaveTable(ctx context.Context, table *models.Table) error {
	return s.db.WithContext(ctx).Save(table).Error
}

func (s *GormStore) DeleteTable(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Table{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
