package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"restaurant-pos/models"
	"restaurant-pos/store"
)

// GSTRate is applied to the bill subtotal
const GSTRate = 0.05

var gstRate = decimal.NewFromFloat(GSTRate)

// BillTotals is the money breakdown printed at the foot of a bill
type BillTotals struct {
	Subtotal   decimal.Decimal
	GST        decimal.Decimal
	GrandTotal decimal.Decimal
}

func ComputeBillTotals(order *models.Order) BillTotals {
	subtotal := order.Subtotal().Round(2)
	gst := subtotal.Mul(gstRate).Round(2)
	return BillTotals{Subtotal: subtotal, GST: gst, GrandTotal: subtotal.Add(gst)}
}

type TicketKind string

const (
	TicketKOT  TicketKind = "kot"
	TicketBill TicketKind = "bill"
)

// Ticket is a rendered KOT or bill ready for a thermal printer
type Ticket struct {
	Kind    TicketKind    `json:"kind"`
	OrderID string        `json:"orderId"`
	Width   int           `json:"width"`
	Text    string        `json:"text"`
	Order   *models.Order `json:"order"`
}

// PrintService renders tickets. Printing a KOT starts the kitchen on a
// confirmed order; printing a bill bills a served one.
type PrintService struct {
	repo   store.Repository
	orders *OrderService
	Clock  func() time.Time
}

func NewPrintService(repo store.Repository, orders *OrderService) *PrintService {
	return &PrintService{repo: repo, orders: orders, Clock: time.Now}
}

// Preview renders a ticket without touching the order
func (s *PrintService) Preview(ctx context.Context, orderID string, kind TicketKind) (*Ticket, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, order, kind)
}

func (s *PrintService) PrintKOT(ctx context.Context, orderID, actor string) (*Ticket, error) {
	order, _, err := s.orders.AdvanceIf(ctx, orderID, models.StatusConfirmed, models.StatusPreparing, actor, "KOT printed")
	if err != nil {
		return nil, err
	}
	return s.render(ctx, order, TicketKOT)
}

func (s *PrintService) PrintBill(ctx context.Context, orderID, actor string) (*Ticket, error) {
	order, _, err := s.orders.AdvanceIf(ctx, orderID, models.StatusServed, models.StatusBilled, actor, "Bill printed")
	if err != nil {
		return nil, err
	}
	return s.render(ctx, order, TicketBill)
}

func (s *PrintService) render(ctx context.Context, order *models.Order, kind TicketKind) (*Ticket, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	width := settings.Print.PrintWidth.Columns()
	var text string
	if kind == TicketBill {
		text = RenderBill(order, settings.Print, s.Clock())
	} else {
		text = RenderKOT(order, settings.Print, s.Clock())
	}
	return &Ticket{Kind: kind, OrderID: order.ID, Width: width, Text: text, Order: order}, nil
}

// RenderKOT lays out a kitchen order ticket
func RenderKOT(order *models.Order, cfg models.PrintSettings, printedAt time.Time) string {
	w := cfg.PrintWidth.Columns()
	var b strings.Builder
	line(&b, center("KITCHEN ORDER TICKET", w))
	line(&b, strings.Repeat("-", w))
	line(&b, spread("Order: "+order.ID, "Table: "+order.TableName, w))
	line(&b, printedAt.Format("02 Jan 2006 15:04"))
	line(&b, strings.Repeat("-", w))
	line(&b, "QTY  ITEM")
	for _, item := range order.Items {
		line(&b, fmt.Sprintf("%-4s %s", fmt.Sprintf("%dx", item.Qty), truncate(item.Name, w-5)))
	}
	if notes := strings.TrimSpace(cfg.KOTNotes); notes != "" {
		line(&b, strings.Repeat("-", w))
		line(&b, "Notes:")
		line(&b, notes)
	}
	line(&b, strings.Repeat("-", w))
	return b.String()
}

// RenderBill lays out the customer bill with GST
func RenderBill(order *models.Order, cfg models.PrintSettings, printedAt time.Time) string {
	w := cfg.PrintWidth.Columns()
	const qtyCol, priceCol, amountCol = 4, 9, 10
	nameCol := w - qtyCol - priceCol - amountCol

	var b strings.Builder
	line(&b, center(cfg.RestaurantName, w))
	line(&b, strings.Repeat("-", w))
	line(&b, spread("Bill: "+order.ID, "Table: "+order.TableName, w))
	line(&b, "Date: "+printedAt.Format("02 Jan 2006 15:04"))
	line(&b, strings.Repeat("-", w))
	line(&b, fmt.Sprintf("%-*s%*s%*s%*s", nameCol, "Item", qtyCol, "Qty", priceCol, "Price", amountCol, "Amount"))

	for _, item := range order.Items {
		line(&b, fmt.Sprintf("%-*s%*d%*.2f%*s",
			nameCol, truncate(item.Name, nameCol-1),
			qtyCol, item.Qty,
			priceCol, item.Price,
			amountCol, item.LineAmount().StringFixed(2),
		))
	}
	totals := ComputeBillTotals(order)

	line(&b, strings.Repeat("-", w))
	line(&b, spread("Subtotal:", totals.Subtotal.StringFixed(2), w))
	line(&b, spread(fmt.Sprintf("GST (%.0f%%):", GSTRate*100), totals.GST.StringFixed(2), w))
	line(&b, strings.Repeat("=", w))
	line(&b, spread("TOTAL:", "INR "+totals.GrandTotal.StringFixed(2), w))
	line(&b, strings.Repeat("-", w))
	if footer := strings.TrimSpace(cfg.BillFooter); footer != "" {
		line(&b, center(footer, w))
	}
	return b.String()
}

// BillPDF renders the bill of an order as an A4 PDF
func (s *PrintService) BillPDF(ctx context.Context, order *models.Order) ([]byte, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return RenderBillPDF(order, settings.Print, s.Clock())
}

func RenderBillPDF(order *models.Order, cfg models.PrintSettings, printedAt time.Time) ([]byte, error) {
	const margin = 20.0
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(cfg.RestaurantName), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, "Bill: "+order.ID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Table: "+order.TableName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Date: "+printedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Item", "Qty", "Price", "Amount"}
	colWidths := []float64{90, 20, 30, 30}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(colWidths[0], 8, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%d", item.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, item.LineAmount().StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	totals := ComputeBillTotals(order)
	labelWidth := colWidths[0] + colWidths[1] + colWidths[2]
	rows := []struct{ label, value string }{
		{"Subtotal", totals.Subtotal.StringFixed(2)},
		{fmt.Sprintf("GST (%.0f%%)", GSTRate*100), totals.GST.StringFixed(2)},
		{"Total (INR)", totals.GrandTotal.StringFixed(2)},
	}
	for i, row := range rows {
		if i == len(rows)-1 {
			pdf.SetFont("Arial", "B", 11)
		}
		pdf.CellFormat(labelWidth, 8, row.label, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, row.value, "1", 1, "R", false, 0, "")
	}

	if footer := strings.TrimSpace(cfg.BillFooter); footer != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 8, tr(footer), "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render bill pdf for order %s: %w", order.ID, err)
	}
	return buf.Bytes(), nil
}

func line(b *strings.Builder, s string) {
	b.WriteString(strings.TrimRight(s, " "))
	b.WriteByte('\n')
}

func center(s string, w int) string {
	s = truncate(s, w)
	pad := (w - utf8.RuneCountInString(s)) / 2
	return strings.Repeat(" ", pad) + s
}

// spread puts left and right on one line, flush to both edges
func spread(left, right string, w int) string {
	gap := w - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "."
}
