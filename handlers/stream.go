package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-pos/events"
	"restaurant-pos/logger"
)

// StreamOrders pushes order and table changes as Server-Sent Events until
// the client goes away
func (h *Handler) StreamOrders(c *gin.Context) {
	ch, cancel := h.svc.Hub.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	h.log.Debug("stream subscriber attached", zap.String("request_id", logger.RequestID(c)))
	done := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		// queued events go out before a disconnect is noticed
		select {
		case ev, ok := <-ch:
			return sendEvent(c, ev, ok)
		default:
		}
		select {
		case ev, ok := <-ch:
			return sendEvent(c, ev, ok)
		case <-done:
			return false
		}
	})
	h.log.Debug("stream subscriber detached", zap.String("request_id", logger.RequestID(c)))
}

func sendEvent(c *gin.Context, ev events.Event, ok bool) bool {
	if !ok {
		return false
	}
	c.SSEvent(ev.Kind, ev.Data)
	return true
}
