package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/apperror"
	"restaurant-pos/models"
	"restaurant-pos/services"
)

var analyticsToday = time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

func placeOrderAt(t *testing.T, f *fixture, when time.Time, tableID string, items []services.OrderItemInput, path ...models.OrderStatus) {
	t.Helper()
	ctx := context.Background()
	f.orders.Clock = func() time.Time { return when }
	order, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: tableID, TableName: "Table " + tableID, Items: items}, "guest")
	require.NoError(t, err)
	for _, next := range path {
		_, err := f.orders.SetStatus(ctx, order.ID, next, "pos", "")
		require.NoError(t, err)
	}
}

var toBilled = []models.OrderStatus{
	models.StatusConfirmed, models.StatusPreparing, models.StatusReady,
	models.StatusServed, models.StatusBilled,
}

func TestAnalyticsCountsOnlyBilledAndClosedOrdersInRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	analytics := services.NewAnalyticsService(f.repo)
	analytics.Clock = func() time.Time { return analyticsToday }
	analytics.Location = time.UTC

	naan := services.OrderItemInput{MenuID: "6", Name: "Butter Naan", Qty: 4, Price: 60}

	placeOrderAt(t, f, analyticsToday.Add(-time.Hour), "T1", []services.OrderItemInput{paneer(2)}, toBilled...)
	placeOrderAt(t, f, analyticsToday.AddDate(0, 0, -2), "T2", []services.OrderItemInput{paneer(1), naan}, append(toBilled, models.StatusClosed)...)
	// outside the window
	placeOrderAt(t, f, analyticsToday.AddDate(0, 0, -30), "T3", []services.OrderItemInput{paneer(5)}, toBilled...)
	// not billed
	placeOrderAt(t, f, analyticsToday.Add(-2*time.Hour), "T4", []services.OrderItemInput{paneer(9)})
	placeOrderAt(t, f, analyticsToday.Add(-3*time.Hour), "T5", []services.OrderItemInput{paneer(9)}, models.StatusCancelled)

	from, to, err := analytics.ParseRange("", "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08", from.Format("2006-01-02"))
	assert.Equal(t, "2026-03-14", to.Format("2006-01-02"))

	summary, err := analytics.Summary(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalOrders)
	assert.Equal(t, 990.0, summary.TotalRevenue)
	assert.Equal(t, 495.0, summary.AverageOrderValue)

	require.Len(t, summary.Daily, 2)
	assert.Equal(t, services.DailySales{Date: "2026-03-12", TotalOrders: 1, Revenue: 490}, summary.Daily[0])
	assert.Equal(t, services.DailySales{Date: "2026-03-14", TotalOrders: 1, Revenue: 500}, summary.Daily[1])

	require.Len(t, summary.Items, 2)
	assert.Equal(t, services.ItemSales{MenuID: "1", Name: "Paneer Tikka", QtySold: 3, Revenue: 750}, summary.Items[0])
	assert.Equal(t, services.ItemSales{MenuID: "6", Name: "Butter Naan", QtySold: 4, Revenue: 240}, summary.Items[1])
}

func TestAnalyticsEmptyRange(t *testing.T) {
	f := newFixture(t)
	analytics := services.NewAnalyticsService(f.repo)
	analytics.Location = time.UTC

	from, to, err := analytics.ParseRange("2025-01-01", "2025-01-31")
	require.NoError(t, err)
	summary, err := analytics.Summary(context.Background(), from, to)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalOrders)
	assert.Zero(t, summary.AverageOrderValue)
	assert.NotNil(t, summary.Daily)
	assert.NotNil(t, summary.Items)
	assert.Equal(t, "2025-01-01", summary.From)
	assert.Equal(t, "2025-01-31", summary.To)
}

func TestAnalyticsParseRangeValidation(t *testing.T) {
	analytics := services.NewAnalyticsService(nil)
	analytics.Location = time.UTC

	_, _, err := analytics.ParseRange("14-03-2026", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, _, err = analytics.ParseRange("", "yesterday")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, _, err = analytics.ParseRange("2026-03-10", "2026-03-01")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
