package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-pos/models"
)

// ErrNotFound is returned when a lookup by id matches nothing
var ErrNotFound = errors.New("record not found")

// MenuFilter narrows ListMenuItems
type MenuFilter struct {
	Category      models.MenuCategory
	AvailableOnly bool
}

// OrderFilter narrows ListOrders. Zero values match everything.
type OrderFilter struct {
	Statuses []models.OrderStatus
	TableID  string
}

// Repository is the storage seam the services depend on. Mutating
// read-modify-write cycles go through Transaction so they cannot interleave.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	NextID(ctx context.Context, prefix string) (string, error)

	ListMenuItems(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	SaveMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error

	ListTables(ctx context.Context) ([]models.Table, error)
	GetTable(ctx context.Context, id string) (*models.Table, error)
	CreateTable(ctx context.Context, table *models.Table) error
	SaveTable(ctx context.Context, table *models.Table) error
	DeleteTable(ctx context.Context, id string) error

	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderForUpdate(ctx context.Context, id string) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	SaveOrder(ctx context.Context, order *models.Order) error
	AddStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error
	ListStatusHistory(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error)

	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error

	GetStaffByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	CreateStaff(ctx context.Context, user *models.StaffUser) error
}

// GormStore implements Repository on top of gorm
type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates every table the store uses
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.MenuItem{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Settings{},
		&models.StaffUser{},
		&models.Counter{},
	)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// NextID bumps the counter for prefix and returns e.g. "O12". A missing
// counter row is inserted with ON CONFLICT DO NOTHING and read back, so two
// first callers cannot both create it.
func (s *GormStore) NextID(ctx context.Context, prefix string) (string, error) {
	db := s.db.WithContext(ctx)
	var counter models.Counter
	err := lockCounter(db, prefix, &counter)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Counter{Name: prefix}).Error; err != nil {
			return "", fmt.Errorf("create counter %s: %w", prefix, err)
		}
		err = lockCounter(db, prefix, &counter)
	}
	if err != nil {
		return "", fmt.Errorf("load counter %s: %w", prefix, err)
	}

	counter.Value++
	if err := db.Model(&counter).Update("value", counter.Value).Error; err != nil {
		return "", fmt.Errorf("bump counter %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s%d", prefix, counter.Value), nil
}

func lockCounter(db *gorm.DB, prefix string, counter *models.Counter) error {
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", prefix).Take(counter).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Id prefixes for NextID
const (
	PrefixMenu  = "M"
	PrefixTable = "T"
	PrefixOrder = "O"
)
