package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"restaurant-pos/apperror"
	"restaurant-pos/events"
	"restaurant-pos/models"
	"restaurant-pos/store"
)

type CreateTableRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateTableStatusRequest struct {
	Status models.TableStatus `json:"status" binding:"required,table_status"`
}

type TableService struct {
	repo   store.Repository
	events Publisher
	log    *zap.Logger
}

func NewTableService(repo store.Repository, pub Publisher, log *zap.Logger) *TableService {
	return &TableService{repo: repo, events: publisherOrNop(pub), log: log}
}

func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	return s.repo.ListTables(ctx)
}

func (s *TableService) Get(ctx context.Context, id string) (*models.Table, error) {
	table, err := s.repo.GetTable(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Table not found")
	}
	return table, nil
}

func (s *TableService) Create(ctx context.Context, req CreateTableRequest) (*models.Table, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("Table name is required")
	}
	table := &models.Table{Name: name, Status: models.TableAvailable}
	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		id, err := tx.NextID(ctx, store.PrefixTable)
		if err != nil {
			return err
		}
		table.ID = id
		return tx.CreateTable(ctx, table)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("table created", zap.String("table_id", table.ID), zap.String("name", table.Name))
	s.events.Publish(events.Event{Kind: events.KindTable, Data: table})
	return table, nil
}

// UpdateStatus sets the table status. Making a table available always drops
// its order; a table whose order is already billed stays in billing.
func (s *TableService) UpdateStatus(ctx context.Context, id string, status models.TableStatus) (*models.Table, error) {
	if !status.Valid() {
		return nil, apperror.Validation("Invalid table status %q", status)
	}
	var table *models.Table
	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		var err error
		table, err = tx.GetTable(ctx, id)
		if err != nil {
			return notFoundOr(err, "Table not found")
		}

		switch {
		case status == models.TableAvailable:
			table.Release()
		case table.CurrentOrderID != nil:
			table.Status = status
			order, err := tx.GetOrder(ctx, *table.CurrentOrderID)
			if err == nil && order.Status == models.StatusBilled {
				table.Status = models.TableBilling
			} else if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		default:
			table.Status = status
		}
		return tx.SaveTable(ctx, table)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("table status updated",
		zap.String("table_id", table.ID),
		zap.String("requested", string(status)),
		zap.String("status", string(table.Status)),
	)
	s.events.Publish(events.Event{Kind: events.KindTable, Data: table})
	return table, nil
}

// Delete removes a table; only free tables can be removed
func (s *TableService) Delete(ctx context.Context, id string) error {
	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		table, err := tx.GetTable(ctx, id)
		if err != nil {
			return notFoundOr(err, "Table not found")
		}
		if table.Status != models.TableAvailable {
			return apperror.Conflict("Cannot delete table %s while it is %s", table.Name, table.Status)
		}
		return tx.DeleteTable(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("table deleted", zap.String("table_id", id))
	return nil
}
