package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"restaurant-pos/models"
)

func seedImage(slug string) string {
	return "https://picsum.photos/seed/" + slug + "/600/400"
}

var seedMenu = []models.MenuItem{
	{ID: "1", Name: "Paneer Tikka", Description: "Creamy chunks of paneer marinated in spices and grilled in a tandoor.", Price: 250, Category: models.CategoryStarters, ImageURL: seedImage("paneer_tikka"), ImageHint: "paneer tikka", Available: true},
	{ID: "2", Name: "Veg Seekh Kebab", Description: "Minced vegetables blended with spices, skewered and cooked.", Price: 220, Category: models.CategoryStarters, ImageURL: seedImage("veg_kebab"), ImageHint: "veg kebab", Available: true},
	{ID: "3", Name: "Shahi Paneer", Description: "Paneer cooked in a rich, creamy tomato-based gravy.", Price: 350, Category: models.CategoryMainCourse, ImageURL: seedImage("shahi_paneer"), ImageHint: "paneer curry", Available: true},
	{ID: "4", Name: "Dal Makhani", Description: "Black lentils and kidney beans cooked in a buttery, creamy gravy.", Price: 300, Category: models.CategoryMainCourse, ImageURL: seedImage("dal_makhani"), ImageHint: "lentil curry", Available: true},
	{ID: "5", Name: "Veg Biryani", Description: "Aromatic rice dish with mixed vegetables and fragrant spices.", Price: 280, Category: models.CategoryMainCourse, ImageURL: seedImage("veg_biryani"), ImageHint: "biryani", Available: true},
	{ID: "6", Name: "Butter Naan", Description: "Soft, fluffy flatbread with a generous layer of butter.", Price: 60, Category: models.CategoryBreads, ImageURL: seedImage("naan"), ImageHint: "naan bread", Available: true},
	{ID: "7", Name: "Garlic Naan", Description: "Flatbread flavored with garlic and herbs.", Price: 70, Category: models.CategoryBreads, ImageURL: seedImage("naan"), ImageHint: "naan bread", Available: true},
	{ID: "8", Name: "Gulab Jamun", Description: "Soft, spongy balls made of milk solids, soaked in sweet syrup.", Price: 120, Category: models.CategoryDesserts, ImageURL: seedImage("gulab_jamun"), ImageHint: "indian dessert", Available: true},
	{ID: "9", Name: "Ras Malai", Description: "Chenna discs soaked in thickened, sweetened milk.", Price: 150, Category: models.CategoryDesserts, ImageURL: seedImage("ras_malai"), ImageHint: "indian dessert", Available: true},
	{ID: "10", Name: "Fresh Lime Soda", Description: "A refreshing drink with lemon juice, soda, and a hint of spice.", Price: 90, Category: models.CategoryBeverages, ImageURL: seedImage("lime_soda"), ImageHint: "lime soda", Available: true},
}

const seedTableCount = 6

// Seed loads the starter menu and tables T1..T6 into an empty database.
// Id counters are advanced past the seeded rows.
func (s *GormStore) Seed(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		// Stagger timestamps so listing keeps the seed order
		base := time.Now().Add(-time.Minute)
		menu := make([]models.MenuItem, len(seedMenu))
		copy(menu, seedMenu)
		for i := range menu {
			menu[i].CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		}
		if err := tx.Create(&menu).Error; err != nil {
			return fmt.Errorf("seed menu: %w", err)
		}

		tables := make([]models.Table, 0, seedTableCount)
		for i := 1; i <= seedTableCount; i++ {
			tables = append(tables, models.Table{
				ID:        fmt.Sprintf("T%d", i),
				Name:      fmt.Sprintf("Table %d", i),
				Status:    models.TableAvailable,
				CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
			})
		}
		if err := tx.Create(&tables).Error; err != nil {
			return fmt.Errorf("seed tables: %w", err)
		}

		counters := []models.Counter{
			{Name: PrefixMenu, Value: len(menu)},
			{Name: PrefixTable, Value: len(tables)},
		}
		return tx.Create(&counters).Error
	})
}
