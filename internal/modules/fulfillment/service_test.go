package fulfillment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenblinds/shades-backend/internal/modules/catalog"
	"github.com/lumenblinds/shades-backend/internal/modules/inventory"
	"github.com/lumenblinds/shades-backend/internal/modules/order"
	"github.com/lumenblinds/shades-backend/internal/modules/pricing"
	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
	"github.com/lumenblinds/shades-backend/internal/platform/sheetstore"
)

type testEnv struct {
	svc    Service
	repo   Repository
	orders order.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := sheetstore.NewMemory()

	products := catalog.NewSheetRepository(store)
	require.NoError(t, products.Ensure(ctx))
	require.NoError(t, products.OverwriteAll(ctx, []*catalog.Product{
		{ID: "RS-100", Title: "Roller Shade", BasePrice: 88, SizeRatio: 0.15,
			MinWidth: 12, MaxWidth: 96, MinHeight: 12, MaxHeight: 120,
			CurrentStock: 50, SafetyStock: 10},
	}))

	orderRepo := order.NewSheetRepository(store)
	require.NoError(t, orderRepo.Ensure(ctx))
	orders := order.NewService(orderRepo, products, inventory.NewService(products), pricing.Lenient)

	repo := NewSheetRepository(store)
	require.NoError(t, repo.Ensure(ctx))

	return &testEnv{svc: NewService(repo, orders), repo: repo, orders: orders}
}

func (e *testEnv) placeOrder(t *testing.T, orderID string) {
	t.Helper()
	_, err := e.orders.CreateOrder(context.Background(), order.CreateOrderRequest{
		OrderID:         orderID,
		CustomerName:    "Dana Whitfield",
		ShippingAddress: "4 Harbor Lane, Portsmouth",
		Items: []order.ItemRequest{
			{ProductID: "RS-100", Width: 48, Height: 72, Quantity: 1},
		},
	})
	require.NoError(t, err)
}

func dispatchReq(orderID string) DispatchRequest {
	return DispatchRequest{
		OrderID:     orderID,
		FullAddress: "4 Harbor Lane, Portsmouth",
		Items: []DispatchItem{
			{FabricCode: "BL-12", WidthCm: 121.9, HeightCm: 182.9, Mount: "Inside", Quantity: 1},
			{FabricCode: "BL-12", WidthCm: 80, HeightCm: 140, Mount: "Outside", Quantity: 2},
		},
	}
}

func TestSendToFactoryEmitsOneLinePerItem(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.placeOrder(t, "PO-1")

	lines, err := env.svc.SendToFactory(ctx, dispatchReq("PO-1"), false)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, "PO-1", line.PONumber)
		assert.Equal(t, FactoryStatusPending, line.FactoryStatus)
		assert.Empty(t, line.TrackingNo)
	}
	assert.Equal(t, 2.23, lines[0].Sqm) // 121.9 * 182.9 / 10000 = 2.2296
	assert.Equal(t, 1.12, lines[1].Sqm)

	o, err := env.orders.GetOrder(ctx, "PO-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusFactoryDispatched, o.Status)
}

func TestSendToFactoryRejectsDuplicateUnlessForced(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.placeOrder(t, "PO-1")

	_, err := env.svc.SendToFactory(ctx, dispatchReq("PO-1"), false)
	require.NoError(t, err)

	_, err = env.svc.SendToFactory(ctx, dispatchReq("PO-1"), false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))

	stored, err := env.repo.ListByOrder(ctx, "PO-1")
	require.NoError(t, err)
	assert.Len(t, stored, 2, "rejected dispatch must not duplicate rows")

	_, err = env.svc.SendToFactory(ctx, dispatchReq("PO-1"), true)
	require.NoError(t, err)
	stored, err = env.repo.ListByOrder(ctx, "PO-1")
	require.NoError(t, err)
	assert.Len(t, stored, 4, "forced re-dispatch appends")
}

func TestSendToFactoryUnknownOrderStillRecorded(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	lines, err := env.svc.SendToFactory(ctx, dispatchReq("PO-GHOST"), false)
	require.NoError(t, err, "the factory sheet is its own source of truth")
	assert.Len(t, lines, 2)
}

func TestFactoryUpdateHandshake(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.placeOrder(t, "PO-1")
	env.placeOrder(t, "PO-2")

	_, err := env.svc.SendToFactory(ctx, dispatchReq("PO-1"), false)
	require.NoError(t, err)
	_, err = env.svc.SendToFactory(ctx, dispatchReq("PO-2"), false)
	require.NoError(t, err)

	// Nothing shipped yet.
	updates, err := env.svc.GetFactoryUpdates(ctx)
	require.NoError(t, err)
	assert.Empty(t, updates)

	// Factory fills in a tracking number for PO-1.
	require.NoError(t, env.svc.UpdateFactoryLine(ctx, "PO-1", "Cut & Sewn", "TRK-9000"))

	updates, err = env.svc.GetFactoryUpdates(ctx)
	require.NoError(t, err)
	require.Len(t, updates, 1, "one event per order, not per line")
	assert.Equal(t, "PO-1", updates[0].OrderID)
	assert.Equal(t, "TRK-9000", updates[0].TrackingNumber)
	assert.Equal(t, "Shipped", updates[0].Status)

	// Apply the handshake: order picks up tracking + Shipped.
	result, err := env.svc.ApplyFactoryUpdates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PO-1"}, result.Applied)
	assert.Empty(t, result.Failed)

	o, err := env.orders.GetOrder(ctx, "PO-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, o.Status)
	assert.Equal(t, "TRK-9000", o.TrackingNumber)

	// Already reflected: the event drains.
	updates, err = env.svc.GetFactoryUpdates(ctx)
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestUpdateFactoryLineValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	err := env.svc.UpdateFactoryLine(ctx, "", "x", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = env.svc.UpdateFactoryLine(ctx, "PO-1", "", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = env.svc.UpdateFactoryLine(ctx, "PO-404", "Cutting", "")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
