package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents every state an order passes through at the table
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusBilled    OrderStatus = "billed"
	StatusClosed    OrderStatus = "closed"
	StatusCancelled OrderStatus = "cancelled"
)

var orderStatuses = map[OrderStatus]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusPreparing: true,
	StatusReady:     true,
	StatusServed:    true,
	StatusBilled:    true,
	StatusClosed:    true,
	StatusCancelled: true,
}

// Valid reports whether s is one of the known order statuses
func (s OrderStatus) Valid() bool {
	return orderStatuses[s]
}

// Finalized orders no longer accept new items
func (s OrderStatus) Finalized() bool {
	return s == StatusBilled || s == StatusClosed
}

type Order struct {
	ID        string      `json:"id" gorm:"primaryKey;size:32"`
	TableID   string      `json:"tableId" gorm:"not null;index"`
	TableName string      `json:"tableName" gorm:"not null"`
	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status" gorm:"not null;index"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// OrderItem is a line on an order. Name and price are snapshots taken when
// the item was added so bills keep the price the guest ordered at.
type OrderItem struct {
	ID      uint    `json:"-" gorm:"primaryKey"`
	OrderID string  `json:"-" gorm:"not null;index;size:32"`
	MenuID  string  `json:"menuId" gorm:"not null"`
	Name    string  `json:"name"`
	Qty     int     `json:"qty" gorm:"not null"`
	Price   float64 `json:"price" gorm:"not null"`
}

// LineAmount is price × qty, exact
func (i OrderItem) LineAmount() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Qty)))
}

// LineTotal is price × qty rounded to paise
func (i OrderItem) LineTotal() float64 {
	return i.LineAmount().Round(2).InexactFloat64()
}

// MergeItems folds incoming lines into the order, summing quantities for
// menu ids already present and appending the rest in arrival order.
func (o *Order) MergeItems(incoming []OrderItem) {
	index := make(map[string]int, len(o.Items))
	for i, item := range o.Items {
		index[item.MenuID] = i
	}
	for _, item := range incoming {
		if i, ok := index[item.MenuID]; ok {
			o.Items[i].Qty += item.Qty
			continue
		}
		item.ID = 0
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
		index[item.MenuID] = len(o.Items) - 1
	}
	o.Recalculate()
}

// Subtotal sums the line amounts without rounding
func (o *Order) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineAmount())
	}
	return total
}

// Recalculate sets Total to the sum of the line totals
func (o *Order) Recalculate() {
	o.Total = o.Subtotal().Round(2).InexactFloat64()
}

// OrderStatusHistory tracks every status change of an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    string      `json:"orderId" gorm:"not null;index;size:32"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  string      `json:"changedBy"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// RoundMoney rounds an amount to two decimals
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
