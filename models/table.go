package models

import "time"

// TableStatus is the occupancy state of a dining table
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableBilling   TableStatus = "billing"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableBilling:
		return true
	}
	return false
}

type Table struct {
	ID             string      `json:"id" gorm:"primaryKey;size:32"`
	Name           string      `json:"name" gorm:"not null"`
	Status         TableStatus `json:"status" gorm:"not null"`
	CurrentOrderID *string     `json:"currentOrderId" gorm:"size:32"`
	CreatedAt      time.Time   `json:"-"`
	UpdatedAt      time.Time   `json:"-"`
}

// Release frees the table and forgets its order
func (t *Table) Release() {
	t.Status = TableAvailable
	t.CurrentOrderID = nil
}

// HoldsOrder reports whether the table is free to be cascaded by orderID
func (t *Table) HoldsOrder(orderID string) bool {
	return t.CurrentOrderID == nil || *t.CurrentOrderID == orderID
}
