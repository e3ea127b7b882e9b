package store

import (
	"context"

	"restaurant-pos/models"
)

func (s *GormStore) GetStaffByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) CreateStaff(ctx context.Context, user *models.StaffUser) error {
	return s.db.WithContext(ctx).Create(user).Error
}
