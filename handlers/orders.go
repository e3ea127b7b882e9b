package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"restaurant-pos/middleware"
	"restaurant-pos/models"
	"restaurant-pos/services"
	"restaurant-pos/store"
)

// ListOrders returns orders newest first. ?status= takes a comma separated
// list, ?tableId= narrows to one table.
func (h *Handler) ListOrders(c *gin.Context) {
	filter := store.OrderFilter{TableID: c.Query("tableId")}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, models.OrderStatus(s))
			}
		}
	}
	orders, err := h.svc.Orders.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.svc.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// PlaceOrder opens a new order for a table
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid order data", err)
		return
	}
	order, err := h.svc.Orders.Create(c.Request.Context(), req, middleware.Actor(c, "guest"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// AddItems takes a bare JSON array of items
func (h *Handler) AddItems(c *gin.Context) {
	var items []services.OrderItemInput
	if err := c.ShouldBindJSON(&items); err != nil {
		badRequest(c, "Invalid items", err)
		return
	}
	order, err := h.svc.Orders.AddItems(c.Request.Context(), c.Param("id"), items, middleware.Actor(c, "guest"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid order status", err)
		return
	}
	order, err := h.svc.Orders.SetStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.Actor(c, "staff"), req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetOrderHistory(c *gin.Context) {
	history, err := h.svc.Orders.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id": c.Param("id"),
		"count":    len(history),
		"history":  history,
	})
}
