package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"restaurant-pos/apperror"
	"restaurant-pos/models"
	"restaurant-pos/store"
)

type CreateMenuItemRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description" binding:"required"`
	Price       float64             `json:"price" binding:"required,gt=0"`
	Category    models.MenuCategory `json:"category" binding:"required,menu_category"`
	Available   *bool               `json:"available"`
}

// UpdateMenuItemRequest is a partial update; nil fields are left alone.
// The id is never patchable.
type UpdateMenuItemRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Price       *float64             `json:"price"`
	Category    *models.MenuCategory `json:"category"`
	ImageURL    *string              `json:"imageUrl"`
	ImageHint   *string              `json:"imageHint"`
	Available   *bool                `json:"available"`
}

type MenuService struct {
	repo store.Repository
	log  *zap.Logger
}

func NewMenuService(repo store.Repository, log *zap.Logger) *MenuService {
	return &MenuService{repo: repo, log: log}
}

func (s *MenuService) List(ctx context.Context, filter store.MenuFilter) ([]models.MenuItem, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apperror.Validation("Unknown category %q", filter.Category)
	}
	return s.repo.ListMenuItems(ctx, filter)
}

func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Menu item not found")
	}
	return item, nil
}

func (s *MenuService) Create(ctx context.Context, req CreateMenuItemRequest) (*models.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" || req.Price <= 0 || !req.Category.Valid() {
		return nil, apperror.Validation("Invalid menu item data")
	}

	item := &models.MenuItem{
		Name:        name,
		Description: description,
		Price:       models.RoundMoney(req.Price),
		Category:    req.Category,
		ImageURL:    models.DefaultImageURL,
		ImageHint:   models.DefaultImageHint,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		id, err := tx.NextID(ctx, store.PrefixMenu)
		if err != nil {
			return err
		}
		item.ID = id
		return tx.CreateMenuItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("menu item created", zap.String("menu_id", item.ID), zap.String("name", item.Name))
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, id string, req UpdateMenuItemRequest) (*models.MenuItem, error) {
	var item *models.MenuItem
	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		var err error
		item, err = tx.GetMenuItem(ctx, id)
		if err != nil {
			return notFoundOr(err, "Menu item not found")
		}
		if err := applyMenuPatch(item, req); err != nil {
			return err
		}
		return tx.SaveMenuItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func applyMenuPatch(item *models.MenuItem, req UpdateMenuItemRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return apperror.Validation("Name cannot be empty")
		}
		item.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return apperror.Validation("Description cannot be empty")
		}
		item.Description = description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return apperror.Validation("Price must be positive")
		}
		item.Price = models.RoundMoney(*req.Price)
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return apperror.Validation("Unknown category %q", *req.Category)
		}
		item.Category = *req.Category
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.ImageHint != nil {
		item.ImageHint = *req.ImageHint
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	return nil
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return notFoundOr(err, "Menu item not found")
	}
	s.log.Info("menu item deleted", zap.String("menu_id", id))
	return nil
}
