package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"restaurant-pos/apperror"
	"restaurant-pos/events"
	"restaurant-pos/models"
	"restaurant-pos/statemachine"
	"restaurant-pos/store"
)

// OrderItemInput is one line as sent by the ordering screens. Name and
// price are optional; missing values are copied from the menu.
type OrderItemInput struct {
	MenuID string  `json:"menuId" binding:"required"`
	Name   string  `json:"name"`
	Qty    int     `json:"qty" binding:"required,gt=0"`
	Price  float64 `json:"price" binding:"gte=0"`
}

type CreateOrderRequest struct {
	TableID   string           `json:"tableId" binding:"required"`
	TableName string           `json:"tableName" binding:"required"`
	Items     []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required,order_status"`
	Note   string             `json:"note"`
}

// OrderService is the order lifecycle controller. It owns every order
// mutation and the table cascades they cause.
type OrderService struct {
	repo   store.Repository
	events Publisher
	log    *zap.Logger
	// Clock stamps createdAt; tests pin it
	Clock func() time.Time
}

func NewOrderService(repo store.Repository, pub Publisher, log *zap.Logger) *OrderService {
	return &OrderService{repo: repo, events: publisherOrNop(pub), log: log, Clock: time.Now}
}

func (s *OrderService) List(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, apperror.Validation("Invalid order status %q", status)
		}
	}
	return s.repo.ListOrders(ctx, filter)
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	return order, nil
}

func (s *OrderService) History(ctx context.Context, id string) ([]models.OrderStatusHistory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListStatusHistory(ctx, id)
}

// Create places a new pending order on a table and marks the table occupied
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest, actor string) (*models.Order, error) {
	tableID := strings.TrimSpace(req.TableID)
	tableName := strings.TrimSpace(req.TableName)
	if tableID == "" || tableName == "" || len(req.Items) == 0 {
		return nil, apperror.Validation("Invalid order data")
	}

	var (
		order *models.Order
		table *models.Table
	)
	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		var err error
		table, err = tx.GetTable(ctx, tableID)
		if err != nil {
			return notFoundOr(err, "Table not found")
		}
		if err := ensureTableFree(ctx, tx, table); err != nil {
			return err
		}

		items, err := resolveItems(ctx, tx, req.Items)
		if err != nil {
			return err
		}
		id, err := tx.NextID(ctx, store.PrefixOrder)
		if err != nil {
			return err
		}

		order = &models.Order{
			ID:        id,
			TableID:   tableID,
			TableName: tableName,
			Status:    models.StatusPending,
			CreatedAt: s.Clock(),
		}
		order.MergeItems(items)
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.AddStatusHistory(ctx, &models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: actor,
			Note:      "Order placed",
		}); err != nil {
			return err
		}

		table.Status = models.TableOccupied
		table.CurrentOrderID = &order.ID
		return tx.SaveTable(ctx, table)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("table_id", order.TableID),
		zap.Int("lines", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	s.events.Publish(events.Event{Kind: events.KindOrder, Data: order})
	s.events.Publish(events.Event{Kind: events.KindTable, Data: table})
	return order, nil
}

// ensureTableFree rejects a new order on a table that still carries a live one
func ensureTableFree(ctx context.Context, tx store.Repository, table *models.Table) error {
	if table.CurrentOrderID == nil {
		return nil
	}
	current, err := tx.GetOrder(ctx, *table.CurrentOrderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if statemachine.IsTerminal(current.Status) {
		return nil
	}
	return apperror.Conflict("Table %s already has an active order %s; add items to it instead", table.Name, current.ID)
}

// resolveItems validates incoming lines and fills missing name or price
// snapshots from the menu
func resolveItems(ctx context.Context, tx store.Repository, inputs []OrderItemInput) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		menuID := strings.TrimSpace(in.MenuID)
		if menuID == "" || in.Qty <= 0 || in.Price < 0 {
			return nil, apperror.Validation("Invalid order item %q", in.MenuID)
		}
		item := models.OrderItem{
			MenuID: menuID,
			Name:   strings.TrimSpace(in.Name),
			Qty:    in.Qty,
			Price:  models.RoundMoney(in.Price),
		}
		if item.Name == "" || item.Price == 0 {
			menuItem, err := tx.GetMenuItem(ctx, menuID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, apperror.Validation("Menu item %s not found", menuID)
				}
				return nil, err
			}
			if item.Name == "" {
				item.Name = menuItem.Name
			}
			if item.Price == 0 {
				item.Price = menuItem.Price
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// AddItems merges more lines into an open order and sends it back to the
// kitchen as pending
func (s *OrderService) AddItems(ctx context.Context, id string, inputs []OrderItemInput, actor string) (*models.Order, error) {
	if len(inputs) == 0 {
		return nil, apperror.Validation("No items to add")
	}

	var order *models.Order
	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		var err error
		order, err = tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, "Order not found")
		}
		if order.Status.Finalized() {
			return apperror.Forbidden("Cannot add items to a %s order.", order.Status)
		}
		if order.Status == models.StatusCancelled {
			return apperror.Conflict("Cannot add items to a cancelled order.")
		}

		items, err := resolveItems(ctx, tx, inputs)
		if err != nil {
			return err
		}
		previous := order.Status
		order.MergeItems(items)
		order.Status = models.StatusPending
		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}
		return tx.AddStatusHistory(ctx, &models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: previous,
			ToStatus:   models.StatusPending,
			ChangedBy:  actor,
			Note:       "Items added",
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("items added to order",
		zap.String("order_id", order.ID),
		zap.Int("added_lines", len(inputs)),
		zap.Float64("total", order.Total),
	)
	s.events.Publish(events.Event{Kind: events.KindOrder, Data: order})
	return order, nil
}

// SetStatus moves an order along its lifecycle and cascades the table
func (s *OrderService) SetStatus(ctx context.Context, id string, to models.OrderStatus, actor, note string) (*models.Order, error) {
	if !to.Valid() {
		return nil, apperror.Validation("Invalid order status %q", to)
	}
	order, _, err := s.transition(ctx, id, nil, to, actor, note)
	return order, err
}

// AdvanceIf moves the order to `to` only when it currently sits in `from`.
// Orders in any other status are returned unchanged.
func (s *OrderService) AdvanceIf(ctx context.Context, id string, from, to models.OrderStatus, actor, note string) (*models.Order, bool, error) {
	return s.transition(ctx, id, &from, to, actor, note)
}

func (s *OrderService) transition(ctx context.Context, id string, onlyFrom *models.OrderStatus, to models.OrderStatus, actor, note string) (*models.Order, bool, error) {
	var (
		order    *models.Order
		table    *models.Table
		previous models.OrderStatus
		changed  bool
	)
	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		var err error
		order, err = tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, "Order not found")
		}
		if onlyFrom != nil && order.Status != *onlyFrom {
			return nil
		}
		if err := statemachine.CanTransition(order.Status, to); err != nil {
			return err
		}

		previous = order.Status
		order.Status = to
		changed = true
		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.AddStatusHistory(ctx, &models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: previous,
			ToStatus:   to,
			ChangedBy:  actor,
			Note:       note,
		}); err != nil {
			return err
		}

		table, err = cascadeTable(ctx, tx, order)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return order, false, nil
	}

	s.log.Info("order status changed",
		zap.String("order_id", order.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(to)),
		zap.String("actor", actor),
	)
	s.events.Publish(events.Event{Kind: events.KindOrder, Data: order})
	if table != nil {
		s.events.Publish(events.Event{Kind: events.KindTable, Data: table})
	}
	return order, true, nil
}

// cascadeTable mirrors billing and closing onto the order's table. Tables
// that have moved on to a different order are left alone.
func cascadeTable(ctx context.Context, tx store.Repository, order *models.Order) (*models.Table, error) {
	switch order.Status {
	case models.StatusBilled, models.StatusClosed, models.StatusCancelled:
	default:
		return nil, nil
	}

	table, err := tx.GetTable(ctx, order.TableID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !table.HoldsOrder(order.ID) {
		return nil, nil
	}

	if order.Status == models.StatusBilled {
		table.Status = models.TableBilling
		table.CurrentOrderID = &order.ID
	} else {
		table.Release()
	}
	if err := tx.SaveTable(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}
