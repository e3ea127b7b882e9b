package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-pos/apperror"
	"restaurant-pos/logger"
)

// respondError writes err as {"error": message} plus any details. Internal
// faults are logged and hidden behind a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("request_id", logger.RequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "Internal Server Error"})
		return
	}

	body := gin.H{"error": appErr.Message}
	for k, v := range appErr.Details {
		body[k] = v
	}
	c.JSON(status, body)
}

// badRequest reports a body that failed to bind
func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
