package returns

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenblinds/shades-backend/internal/modules/order"
	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
	"github.com/lumenblinds/shades-backend/internal/platform/sheetstore"
)

func newTestTracker(t *testing.T, strict bool) (Service, order.Repository) {
	t.Helper()
	ctx := context.Background()
	store := sheetstore.NewMemory()

	orders := order.NewSheetRepository(store)
	require.NoError(t, orders.Ensure(ctx))

	repo := NewSheetRepository(store)
	require.NoError(t, repo.Ensure(ctx))

	return NewService(repo, orders, strict), orders
}

func seedOrder(t *testing.T, orders order.Repository, orderID, customer string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, orders.Insert(context.Background(), &order.Order{
		OrderID:         orderID,
		CustomerName:    customer,
		ShippingAddress: "4 Harbor Lane",
		Items:           []order.LineItem{{ProductID: "RS-100", Quantity: 1, UnitPrice: 91.60}},
		Total:           91.60,
		Status:          order.StatusDelivered,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}))
}

func TestCreateReturnForKnownOrder(t *testing.T) {
	ctx := context.Background()
	svc, orders := newTestTracker(t, false)
	seedOrder(t, orders, "ORD-1", "Dana Whitfield")

	ret, err := svc.CreateOrUpdateReturn(ctx, UpdateReturnRequest{
		OrderID: "ORD-1", Status: "Requested", Reason: "Wrong size",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, ret.Status)
	assert.Equal(t, "Dana Whitfield", ret.Customer, "customer fills in from the order")
	assert.Equal(t, "Wrong size", ret.Reason)
}

func TestUnknownOrderCreatesPhantomRecordThenUpdatesIt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTracker(t, false)

	ret, err := svc.CreateOrUpdateReturn(ctx, UpdateReturnRequest{OrderID: "X", Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, UnknownCustomer, ret.Customer)
	assert.Equal(t, ManualUpdateReason, ret.Reason)
	assert.Equal(t, StatusApproved, ret.Status)

	// The second update advances the same record, no duplicate.
	ret2, err := svc.CreateOrUpdateReturn(ctx, UpdateReturnRequest{OrderID: "X", Status: "Refunded", RefundAmount: 45.50})
	require.NoError(t, err)
	assert.Equal(t, ret.ID, ret2.ID)
	assert.Equal(t, StatusRefunded, ret2.Status)
	assert.Equal(t, 45.50, ret2.RefundAmount)

	all, err := svc.ListReturns(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStrictModeRejectsUnknownOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTracker(t, true)

	_, err := svc.CreateOrUpdateReturn(ctx, UpdateReturnRequest{OrderID: "X", Status: "Approved"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReturnStatusOnlyAdvances(t *testing.T) {
	ctx := context.Background()
	svc, orders := newTestTracker(t, false)
	seedOrder(t, orders, "ORD-1", "Dana Whitfield")

	_, err := svc.CreateOrUpdateReturn(ctx, UpdateReturnRequest{OrderID: "ORD-1", Status: "Approved"})
	require.NoError(t, err)

	_, err = svc.CreateOrUpdateReturn(ctx, UpdateReturnRequest{OrderID: "ORD-1", Status: "Requested"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))

	_, err = svc.CreateOrUpdateReturn(ctx, UpdateReturnRequest{OrderID: "ORD-1", Status: "Approved"})
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))

	_, err = svc.CreateOrUpdateReturn(ctx, UpdateReturnRequest{OrderID: "ORD-1", Status: "Lost"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRefundAmountPreservedWhenNotProvided(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTracker(t, false)

	_, err := svc.CreateOrUpdateReturn(ctx, UpdateReturnRequest{OrderID: "X", Status: "Requested", RefundAmount: 30})
	require.NoError(t, err)

	ret, err := svc.CreateOrUpdateReturn(ctx, UpdateReturnRequest{OrderID: "X", Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, 30.0, ret.RefundAmount, "omitted refund amount leaves the recorded one")
}
