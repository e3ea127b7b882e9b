package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAnalytics reports sales between ?from= and ?to= (YYYY-MM-DD, inclusive)
func (h *Handler) GetAnalytics(c *gin.Context) {
	from, to, err := h.svc.Analytics.ParseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	summary, err := h.svc.Analytics.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
