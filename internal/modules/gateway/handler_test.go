package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenblinds/shades-backend/internal/modules/catalog"
	"github.com/lumenblinds/shades-backend/internal/modules/fulfillment"
	"github.com/lumenblinds/shades-backend/internal/modules/inventory"
	"github.com/lumenblinds/shades-backend/internal/modules/mail"
	"github.com/lumenblinds/shades-backend/internal/modules/order"
	"github.com/lumenblinds/shades-backend/internal/modules/pricing"
	"github.com/lumenblinds/shades-backend/internal/modules/returns"
	"github.com/lumenblinds/shades-backend/internal/platform/sheetstore"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	store := sheetstore.NewMemory()

	productRepo := catalog.NewSheetRepository(store)
	orderRepo := order.NewSheetRepository(store)
	factoryRepo := fulfillment.NewSheetRepository(store)
	returnRepo := returns.NewSheetRepository(store)
	for _, ensure := range []func(context.Context) error{
		productRepo.Ensure, orderRepo.Ensure, factoryRepo.Ensure, returnRepo.Ensure,
	} {
		require.NoError(t, ensure(ctx))
	}

	ledger := inventory.NewService(productRepo)
	orderService := order.NewService(orderRepo, productRepo, ledger, pricing.Lenient)
	factoryService := fulfillment.NewService(factoryRepo, orderService)
	returnService := returns.NewService(returnRepo, orderRepo, false)

	router := chi.NewRouter()
	NewHandler(
		catalog.NewService(productRepo),
		orderService,
		ledger,
		factoryService,
		returnService,
		mail.NewLogMailer(),
	).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/gateway", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func get(t *testing.T, srv *httptest.Server, query string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/v1/gateway" + query)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

const syncBody = `{
	"action": "sync_products",
	"products": [{
		"id": "RS-100", "title": "Roller Shade", "category": "roller",
		"basePrice": 88, "sizeRatio": 0.15,
		"minWidth": 12, "maxWidth": 96, "minHeight": 12, "maxHeight": 120,
		"showColor": true,
		"colors": [{"name": "Linen", "code": "LN"}]
	}]
}`

const checkoutBody = `{
	"action": "create_order",
	"order": {
		"orderId": "ORD-1",
		"customerName": "Dana Whitfield",
		"shippingAddress": "4 Harbor Lane, Portsmouth",
		"items": [{"productId": "RS-100", "width": 48, "height": 72, "quantity": 2, "color": "Linen"}]
	}
}`

func TestGatewaySyncAndListProducts(t *testing.T) {
	srv := newTestServer(t)

	status, envelope := post(t, srv, syncBody)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", envelope["result"])
	assert.Equal(t, float64(1), envelope["count"])

	var products []map[string]interface{}
	status = get(t, srv, "?type=product", &products)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, products, 1)
	assert.Equal(t, "RS-100", products[0]["id"])
	assert.Equal(t, float64(88), products[0]["price"])
	assert.Equal(t, float64(0), products[0]["stockQty"])
	assert.Equal(t, float64(10), products[0]["safetyStock"])
}

func TestGatewayCheckoutFlow(t *testing.T) {
	srv := newTestServer(t)
	post(t, srv, syncBody)

	status, envelope := post(t, srv, checkoutBody)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", envelope["result"])
	assert.Equal(t, "ORD-1", envelope["orderId"])
	assert.Equal(t, 183.20, envelope["total"])

	// Duplicate orderId is rejected in-band and by status code.
	status, envelope = post(t, srv, checkoutBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "error", envelope["result"])
	assert.NotEmpty(t, envelope["message"])
}

func TestGatewayFactoryRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	post(t, srv, syncBody)
	post(t, srv, checkoutBody)

	dispatch := `{
		"action": "send_to_factory",
		"order": {
			"orderId": "ORD-1",
			"fullAddress": "4 Harbor Lane, Portsmouth",
			"items": [{"fabricCode": "BL-12", "widthCm": 121.9, "heightCm": 182.9, "mount": "Inside", "quantity": 2}]
		}
	}`
	status, envelope := post(t, srv, dispatch)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", envelope["result"])

	status, envelope = post(t, srv, dispatch)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "error", envelope["result"])

	// Factory reports a tracking number; the poll surfaces it.
	status, envelope = post(t, srv, `{"action": "update_factory_line", "orderId": "ORD-1", "trackingNumber": "TRK-9000"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", envelope["result"])

	var updates []map[string]interface{}
	status = get(t, srv, "?action=get_factory_updates", &updates)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, updates, 1)
	assert.Equal(t, "ORD-1", updates[0]["orderId"])
	assert.Equal(t, "TRK-9000", updates[0]["trackingNumber"])
	assert.Equal(t, "Shipped", updates[0]["status"])

	status, envelope = post(t, srv, `{"action": "apply_factory_updates"}`)
	assert.Equal(t, http.StatusOK, status)
	applied, ok := envelope["applied"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"ORD-1"}, applied)

	var orders []map[string]interface{}
	get(t, srv, "?type=orders", &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "Shipped", orders[0]["status"])
	assert.Equal(t, "TRK-9000", orders[0]["trackingNumber"])
}

func TestGatewayReturnsFlow(t *testing.T) {
	srv := newTestServer(t)

	status, envelope := post(t, srv, `{"action": "update_return", "orderId": "ORD-77", "status": "Approved"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", envelope["result"])

	var records []map[string]interface{}
	status = get(t, srv, "?type=returns", &records)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, records, 1)
	assert.Equal(t, "ORD-77", records[0]["orderId"])
	assert.Equal(t, "Unknown", records[0]["customer"])
	assert.Equal(t, "Approved", records[0]["status"])
}

func TestGatewayUnknownActionAndType(t *testing.T) {
	srv := newTestServer(t)

	status, envelope := post(t, srv, `{"action": "reticulate_splines"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "error", envelope["result"])
	assert.Equal(t, "Unknown action", envelope["message"])

	var envelope2 map[string]interface{}
	status = get(t, srv, "?type=spaceships", &envelope2)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "error", envelope2["result"])
}

func TestGatewayStatusUpdateActions(t *testing.T) {
	srv := newTestServer(t)
	post(t, srv, syncBody)
	post(t, srv, checkoutBody)

	status, envelope := post(t, srv, `{"action": "update_status", "orderId": "ORD-1", "status": "FactoryDispatched"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", envelope["result"])

	// Backward transition surfaces as unprocessable.
	status, envelope = post(t, srv, `{"action": "update_status", "orderId": "ORD-1", "status": "Received"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "error", envelope["result"])

	status, envelope = post(t, srv, `{"action": "update_tracking", "orderId": "ORD-1", "trackingNumber": "TRK-1"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", envelope["result"])
}
