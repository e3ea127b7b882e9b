package models

import "time"

type MenuCategory string

const (
	CategoryStarters   MenuCategory = "Starters"
	CategoryMainCourse MenuCategory = "Main Course"
	CategoryBreads     MenuCategory = "Breads"
	CategoryDesserts   MenuCategory = "Desserts"
	CategoryBeverages  MenuCategory = "Beverages"
)

// MenuCategories lists the categories in the order the menu tabs show them
var MenuCategories = []MenuCategory{
	CategoryStarters,
	CategoryMainCourse,
	CategoryBreads,
	CategoryDesserts,
	CategoryBeverages,
}

func (c MenuCategory) Valid() bool {
	for _, known := range MenuCategories {
		if c == known {
			return true
		}
	}
	return false
}

const (
	DefaultImageURL  = "https://picsum.photos/seed/new/600/400"
	DefaultImageHint = "new dish"
)

type MenuItem struct {
	ID          string       `json:"id" gorm:"primaryKey;size:32"`
	Name        string       `json:"name" gorm:"not null"`
	Description string       `json:"description"`
	Price       float64      `json:"price" gorm:"not null"`
	Category    MenuCategory `json:"category" gorm:"not null;index"`
	ImageURL    string       `json:"imageUrl"`
	ImageHint   string       `json:"imageHint"`
	Available   bool         `json:"available" gorm:"not null"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}
