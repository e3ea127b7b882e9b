package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-pos/services"
)

// Login authenticates a staff member and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required", err)
		return
	}
	token, user, err := h.svc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      token,
		"expires_in": int(services.TokenTTL.Seconds()),
		"user":       user,
	})
}

// CreateStaff registers a captain or POS account
func (h *Handler) CreateStaff(c *gin.Context) {
	var req services.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid staff data", err)
		return
	}
	user, err := h.svc.Auth.CreateStaff(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff account created",
		"user":    user,
	})
}
