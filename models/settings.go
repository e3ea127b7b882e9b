package models

import "time"

// PrintWidth is the paper width of the receipt printer
type PrintWidth string

const (
	PrintWidth58mm PrintWidth = "58mm"
	PrintWidth80mm PrintWidth = "80mm"
	PrintWidthFull PrintWidth = "100%"
)

// Columns is how many monospace characters fit on one ticket line
func (w PrintWidth) Columns() int {
	switch w {
	case PrintWidth58mm:
		return 32
	case PrintWidthFull:
		return 64
	default:
		return 48
	}
}

func (w PrintWidth) Valid() bool {
	return w == PrintWidth58mm || w == PrintWidth80mm || w == PrintWidthFull
}

// Location is the restaurant's position used for the geofence check
type Location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (l Location) Configured() bool {
	return l.Latitude != nil && l.Longitude != nil
}

type PrintSettings struct {
	RestaurantName string     `json:"restaurantName"`
	BillFooter     string     `json:"billFooter"`
	KOTNotes       string     `json:"kotNotes"`
	PrintWidth     PrintWidth `json:"printWidth"`
}

// DefaultPrintSettings mirrors what a freshly installed POS prints
func DefaultPrintSettings() PrintSettings {
	return PrintSettings{
		RestaurantName: "Nikee's Zara Veg Rooftop",
		BillFooter:     "Thank you for visiting!",
		PrintWidth:     PrintWidth80mm,
	}
}

// Settings is a single-row record
type Settings struct {
	ID        uint          `gorm:"primaryKey"`
	Location  Location      `gorm:"embedded"`
	Print     PrintSettings `gorm:"embedded;embeddedPrefix:print_"`
	UpdatedAt time.Time
}
