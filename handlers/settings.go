package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-pos/services"
)

func (h *Handler) GetSettings(c *gin.Context) {
	location, err := h.svc.Settings.Location(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

// UpdateSettings stores the restaurant location used by the geofence
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req services.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Latitude and Longitude are required", err)
		return
	}
	location, err := h.svc.Settings.SetLocation(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *Handler) VerifyLocation(c *gin.Context) {
	var req services.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Latitude and Longitude are required", err)
		return
	}
	check, err := h.svc.Settings.VerifyLocation(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (h *Handler) GetPrintSettings(c *gin.Context) {
	settings, err := h.svc.Settings.PrintSettings(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdatePrintSettings(c *gin.Context) {
	var req services.UpdatePrintSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid print settings", err)
		return
	}
	settings, err := h.svc.Settings.UpdatePrintSettings(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
