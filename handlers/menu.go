package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-pos/models"
	"restaurant-pos/services"
	"restaurant-pos/store"
)

// ListMenu returns the menu, optionally filtered by category or availability
func (h *Handler) ListMenu(c *gin.Context) {
	filter := store.MenuFilter{
		Category:      models.MenuCategory(c.Query("category")),
		AvailableOnly: c.Query("available") == "true",
	}
	items, err := h.svc.Menu.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetMenuItem(c *gin.Context) {
	item, err := h.svc.Menu.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req services.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid menu item data", err)
		return
	}
	item, err := h.svc.Menu.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem applies a partial update; the id in the body is ignored
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var req services.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid menu item data", err)
		return
	}
	item, err := h.svc.Menu.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	if err := h.svc.Menu.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}
