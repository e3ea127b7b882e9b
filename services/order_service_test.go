package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restaurant-pos/apperror"
	"restaurant-pos/events"
	"restaurant-pos/models"
	"restaurant-pos/services"
	"restaurant-pos/store"
	"restaurant-pos/testhelpers"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]string, len(p.events))
	for i, ev := range p.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

type fixture struct {
	repo   *store.GormStore
	pub    *recordingPublisher
	tables *services.TableService
	orders *services.OrderService
}

func newFixture(t *testing.T) *fixture {
	repo := testhelpers.SetupTestStore(t, true)
	pub := &recordingPublisher{}
	log := zap.NewNop()
	return &fixture{
		repo:   repo,
		pub:    pub,
		tables: services.NewTableService(repo, pub, log),
		orders: services.NewOrderService(repo, pub, log),
	}
}

func paneer(qty int) services.OrderItemInput {
	return services.OrderItemInput{MenuID: "1", Name: "Paneer Tikka", Qty: qty, Price: 250}
}

func assertTotalMatchesLines(t *testing.T, order *models.Order) {
	t.Helper()
	var sum float64
	for _, item := range order.Items {
		sum += item.Price * float64(item.Qty)
	}
	assert.InDelta(t, sum, order.Total, 0.001)
}

func TestOrderLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	table, err := f.tables.Create(ctx, services.CreateTableRequest{Name: "Table 7"})
	require.NoError(t, err)
	require.Equal(t, "T7", table.ID)

	order, err := f.orders.Create(ctx, services.CreateOrderRequest{
		TableID:   table.ID,
		TableName: table.Name,
		Items:     []services.OrderItemInput{paneer(2)},
	}, "guest")
	require.NoError(t, err)
	assert.Equal(t, 500.0, order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	assertTotalMatchesLines(t, order)

	occupied, err := f.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, occupied.Status)
	require.NotNil(t, occupied.CurrentOrderID)
	assert.Equal(t, order.ID, *occupied.CurrentOrderID)

	order, err = f.orders.AddItems(ctx, order.ID, []services.OrderItemInput{paneer(1)}, "guest")
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Qty)
	assert.Equal(t, 750.0, order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	assertTotalMatchesLines(t, order)

	for _, next := range []models.OrderStatus{
		models.StatusConfirmed, models.StatusPreparing, models.StatusReady,
		models.StatusServed, models.StatusBilled,
	} {
		order, err = f.orders.SetStatus(ctx, order.ID, next, "captain@example.com", "")
		require.NoError(t, err, next)
	}
	billing, err := f.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableBilling, billing.Status)

	order, err = f.orders.SetStatus(ctx, order.ID, models.StatusClosed, "captain@example.com", "paid cash")
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, order.Status)

	freed, err := f.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, freed.Status)
	assert.Nil(t, freed.CurrentOrderID)

	history, err := f.orders.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 8)
	assert.Equal(t, models.StatusPending, history[0].ToStatus)
	assert.Equal(t, "Items added", history[1].Note)
	assert.Equal(t, models.StatusClosed, history[7].ToStatus)
	assert.Equal(t, "paid cash", history[7].Note)
}

func TestClosingPendingOrderIsRejectedAndTableStaysHeld(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	table, err := f.tables.Create(ctx, services.CreateTableRequest{Name: "Table 7"})
	require.NoError(t, err)
	order, err := f.orders.Create(ctx, services.CreateOrderRequest{
		TableID:   table.ID,
		TableName: table.Name,
		Items:     []services.OrderItemInput{paneer(2)},
	}, "guest")
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, order.ID, models.StatusClosed, "captain", "")
	require.ErrorIs(t, err, apperror.ErrInvalidTransition)

	unchanged, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, unchanged.Status)

	held, err := f.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, held.Status)
	require.NotNil(t, held.CurrentOrderID)
	assert.Equal(t, order.ID, *held.CurrentOrderID)

	// A pending order can still be abandoned, which frees the table
	_, err = f.orders.SetStatus(ctx, order.ID, models.StatusCancelled, "captain", "walked out")
	require.NoError(t, err)
	freed, err := f.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, freed.Status)
	assert.Nil(t, freed.CurrentOrderID)
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T1", TableName: "Table 1"}, "guest")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.orders.Create(ctx, services.CreateOrderRequest{TableID: "", TableName: "Table 1", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T1", TableName: "Table 1", Items: []services.OrderItemInput{{MenuID: "1", Qty: 0, Price: 250}}}, "guest")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T99", TableName: "Table 99", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	orders, err := f.orders.List(ctx, store.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateOrderMergesDuplicatesAndFillsFromMenu(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.Create(ctx, services.CreateOrderRequest{
		TableID:   "T1",
		TableName: "Table 1",
		Items: []services.OrderItemInput{
			{MenuID: "6", Qty: 2},
			paneer(1),
			{MenuID: "6", Qty: 1},
		},
	}, "guest")
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Butter Naan", order.Items[0].Name)
	assert.Equal(t, 60.0, order.Items[0].Price)
	assert.Equal(t, 3, order.Items[0].Qty)
	assert.Equal(t, 430.0, order.Total)

	_, err = f.orders.Create(ctx, services.CreateOrderRequest{
		TableID: "T2", TableName: "Table 2",
		Items: []services.OrderItemInput{{MenuID: "nope", Qty: 1}},
	}, "guest")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSecondOrderOnBusyTableConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T1", TableName: "Table 1", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	require.NoError(t, err)

	_, err = f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T1", TableName: "Table 1", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = f.orders.SetStatus(ctx, first.ID, models.StatusCancelled, "captain", "guest left")
	require.NoError(t, err)

	second, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T1", TableName: "Table 1", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAddItemsToFinalizedOrderIsForbiddenAndLeavesOrderUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T2", TableName: "Table 2", Items: []services.OrderItemInput{paneer(2)}}, "guest")
	require.NoError(t, err)
	for _, next := range []models.OrderStatus{
		models.StatusConfirmed, models.StatusPreparing, models.StatusReady,
		models.StatusServed, models.StatusBilled,
	} {
		_, err = f.orders.SetStatus(ctx, order.ID, next, "captain", "")
		require.NoError(t, err)
	}

	_, err = f.orders.AddItems(ctx, order.ID, []services.OrderItemInput{paneer(1)}, "guest")
	require.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Contains(t, err.Error(), "billed")

	unchanged, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBilled, unchanged.Status)
	assert.Equal(t, 2, unchanged.Items[0].Qty)
	assert.Equal(t, 500.0, unchanged.Total)

	_, err = f.orders.SetStatus(ctx, order.ID, models.StatusClosed, "captain", "")
	require.NoError(t, err)
	_, err = f.orders.AddItems(ctx, order.ID, []services.OrderItemInput{paneer(1)}, "guest")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestAddItemsResetsProgressToPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T3", TableName: "Table 3", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, order.ID, models.StatusConfirmed, "captain", "")
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, order.ID, models.StatusPreparing, "kitchen", "")
	require.NoError(t, err)

	order, err = f.orders.AddItems(ctx, order.ID, []services.OrderItemInput{{MenuID: "10", Name: "Fresh Lime Soda", Qty: 2, Price: 90}}, "guest")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 430.0, order.Total)
	assertTotalMatchesLines(t, order)

	_, err = f.orders.AddItems(ctx, order.ID, nil, "guest")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = f.orders.AddItems(ctx, "O404", []services.OrderItemInput{paneer(1)}, "guest")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAddItemsToCancelledOrderConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T4", TableName: "Table 4", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, order.ID, models.StatusCancelled, "captain", "")
	require.NoError(t, err)

	_, err = f.orders.AddItems(ctx, order.ID, []services.OrderItemInput{paneer(1)}, "guest")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestIllegalTransitionIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T5", TableName: "Table 5", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, order.ID, models.StatusServed, "captain", "")
	require.ErrorIs(t, err, apperror.ErrInvalidTransition)
	e := apperror.From(err)
	assert.Equal(t, []models.OrderStatus{models.StatusConfirmed, models.StatusCancelled}, e.Details["valid_next_states"])

	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatus("teleported"), "captain", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.orders.SetStatus(ctx, "O404", models.StatusConfirmed, "captain", "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	still, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, still.Status)
}

func TestCascadeLeavesTablesHoldingOtherOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	stale, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T6", TableName: "Table 6", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	require.NoError(t, err)
	// Staff frees the table by hand and a new party sits down
	_, err = f.tables.UpdateStatus(ctx, "T6", models.TableAvailable)
	require.NoError(t, err)
	fresh, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T6", TableName: "Table 6", Items: []services.OrderItemInput{paneer(2)}}, "guest")
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, stale.ID, models.StatusCancelled, "captain", "")
	require.NoError(t, err)

	table, err := f.tables.Get(ctx, "T6")
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, table.Status)
	require.NotNil(t, table.CurrentOrderID)
	assert.Equal(t, fresh.ID, *table.CurrentOrderID)
}

func TestOrderListFiltersAndEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T1", TableName: "Table 1", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T2", TableName: "Table 2", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, a.ID, models.StatusConfirmed, "captain", "")
	require.NoError(t, err)

	pending, err := f.orders.List(ctx, store.OrderFilter{Statuses: []models.OrderStatus{models.StatusPending}})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "T2", pending[0].TableID)

	byTable, err := f.orders.List(ctx, store.OrderFilter{TableID: "T1"})
	require.NoError(t, err)
	require.Len(t, byTable, 1)
	assert.Equal(t, a.ID, byTable[0].ID)

	_, err = f.orders.List(ctx, store.OrderFilter{Statuses: []models.OrderStatus{"bogus"}})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.Equal(t, []string{
		events.KindOrder, events.KindTable,
		events.KindOrder, events.KindTable,
		events.KindOrder,
	}, f.pub.kinds())
}

func TestConcurrentAddItemsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.Create(ctx, services.CreateOrderRequest{TableID: "T1", TableName: "Table 1", Items: []services.OrderItemInput{paneer(1)}}, "guest")
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orders.AddItems(ctx, order.ID, []services.OrderItemInput{paneer(1)}, "guest")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	final, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, final.Items, 1)
	assert.Equal(t, 1+workers, final.Items[0].Qty)
	assert.Equal(t, float64(250*(1+workers)), final.Total)
}
