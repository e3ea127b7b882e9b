package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-pos/middleware"
	"restaurant-pos/services"
)

const (
	formatJSON = "json"
	formatText = "text"
	formatPDF  = "pdf"
)

// ticketFormat reads ?format=. Plain text is what thermal printers take;
// PDF exists for bills only.
func ticketFormat(c *gin.Context, kind services.TicketKind) (string, bool) {
	format := c.DefaultQuery("format", formatJSON)
	switch format {
	case formatJSON, formatText:
		return format, true
	case formatPDF:
		if kind == services.TicketBill {
			return format, true
		}
	}
	badRequest(c, fmt.Sprintf("Unsupported format %q for %s", format, kind), nil)
	return "", false
}

func (h *Handler) writeTicket(c *gin.Context, ticket *services.Ticket, format string) {
	switch format {
	case formatText:
		c.String(http.StatusOK, ticket.Text)
	case formatPDF:
		pdf, err := h.svc.Print.BillPDF(c.Request.Context(), ticket.Order)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="bill-%s.pdf"`, ticket.OrderID))
		c.Data(http.StatusOK, "application/pdf", pdf)
	default:
		c.JSON(http.StatusOK, ticket)
	}
}

func (h *Handler) previewTicket(kind services.TicketKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, ok := ticketFormat(c, kind)
		if !ok {
			return
		}
		ticket, err := h.svc.Print.Preview(c.Request.Context(), c.Param("id"), kind)
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.writeTicket(c, ticket, format)
	}
}

func (h *Handler) PreviewKOT(c *gin.Context)  { h.previewTicket(services.TicketKOT)(c) }
func (h *Handler) PreviewBill(c *gin.Context) { h.previewTicket(services.TicketBill)(c) }

// PrintKOT sends a confirmed order to the kitchen
func (h *Handler) PrintKOT(c *gin.Context) {
	format, ok := ticketFormat(c, services.TicketKOT)
	if !ok {
		return
	}
	ticket, err := h.svc.Print.PrintKOT(c.Request.Context(), c.Param("id"), middleware.Actor(c, "staff"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.writeTicket(c, ticket, format)
}

// PrintBill bills a served order
func (h *Handler) PrintBill(c *gin.Context) {
	format, ok := ticketFormat(c, services.TicketBill)
	if !ok {
		return
	}
	ticket, err := h.svc.Print.PrintBill(c.Request.Context(), c.Param("id"), middleware.Actor(c, "staff"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.writeTicket(c, ticket, format)
}
