package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-pos/models"
)

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

func (s *GormStore) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Preload("Items", itemsInOrder)
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.TableID != "" {
		query = query.Where("table_id = ?", filter.TableID)
	}
	orders := []models.Order{}
	err := query.Order("created_at desc").Order("id desc").Find(&orders).Error
	return orders, err
}

func (s *GormStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items", itemsInOrder).Where("id = ?", id).Take(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// GetOrderForUpdate loads the order with its row locked until the
// surrounding transaction ends
func (s *GormStore) GetOrderForUpdate(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).Take(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	if err := s.db.WithContext(ctx).Where("order_id = ?", id).Order("id asc").Find(&order.Items).Error; err != nil {
		return nil, fmt.Errorf("load items for order %s: %w", id, err)
	}
	return &order, nil
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// SaveOrder writes the order header, updates existing lines and inserts new ones
func (s *GormStore) SaveOrder(ctx context.Context, order *models.Order) error {
	db := s.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(order).Error; err != nil {
		return fmt.Errorf("save order %s: %w", order.ID, err)
	}
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		var err error
		if item.ID == 0 {
			err = db.Create(item).Error
		} else {
			err = db.Save(item).Error
		}
		if err != nil {
			return fmt.Errorf("save item %s on order %s: %w", item.MenuID, order.ID, err)
		}
	}
	return nil
}

func (s *GormStore) AddStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) ListStatusHistory(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	history := []models.OrderStatusHistory{}
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&history).Error
	return history, err
}
