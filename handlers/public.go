package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-pos/models"
	"restaurant-pos/statemachine"
)

const serviceName = "Restaurant Table Ordering & POS API"

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": "1.0.0",
	})
}

func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the " + serviceName,
		"docs":    "/api/state-machine",
		"health":  "/health",
		"roles":   []models.StaffRole{models.RoleCaptain, models.RolePOS},
	})
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": statemachine.TerminalStates(),
		"description":     "Restaurant Order Lifecycle State Machine",
	})
}
