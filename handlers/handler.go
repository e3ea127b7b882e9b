package handlers

import (
	"go.uber.org/zap"

	"restaurant-pos/events"
	"restaurant-pos/services"
)

// Services groups everything the HTTP layer calls into
type Services struct {
	Menu      *services.MenuService
	Tables    *services.TableService
	Orders    *services.OrderService
	Settings  *services.SettingsService
	Analytics *services.AnalyticsService
	Print     *services.PrintService
	Auth      *services.AuthService
	Hub       *events.Hub
}

type Handler struct {
	svc Services
	log *zap.Logger
}

func New(svc Services, log *zap.Logger) *Handler {
	RegisterValidators()
	return &Handler{svc: svc, log: log}
}
