package order

import (
	"time"

	"github.com/lumenblinds/shades-backend/internal/modules/inventory"
	"github.com/lumenblinds/shades-backend/internal/modules/pricing"
	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
)

// Status represents the lifecycle state of an order. The set is ordered:
// status only ever moves forward, or to Cancelled from a non-terminal state.
type Status string

const (
	StatusReceived          Status = "Received"
	StatusFactoryDispatched Status = "FactoryDispatched"
	StatusInProduction      Status = "InProduction"
	StatusShipped           Status = "Shipped"
	StatusDelivered         Status = "Delivered"
	StatusCancelled         Status = "Cancelled"
)

// statusRank orders the forward lifecycle. Cancelled is outside the ranking;
// it is reachable from any non-terminal state.
var statusRank = map[Status]int{
	StatusReceived:          0,
	StatusFactoryDispatched: 1,
	StatusInProduction:      2,
	StatusShipped:           3,
	StatusDelivered:         4,
}

// ParseStatus validates a wire status string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if st == StatusCancelled {
		return st, nil
	}
	if _, ok := statusRank[st]; !ok {
		return "", apperr.New(apperr.KindValidation, "unknown order status %q", s)
	}
	return st, nil
}

// CanTransition returns true if an order may move from current to next.
// Forward skips are allowed; backward moves and same-status re-applies are not.
func CanTransition(current, next Status) bool {
	if current == StatusDelivered || current == StatusCancelled {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[current]
}

// LineItem is one configured unit within an order: a product, its dimensions,
// the chosen options, and the unit price the pricing engine computed for it.
type LineItem struct {
	ProductID string            `json:"product_id"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Selection pricing.Selection `json:"selection"`
	UnitPrice float64           `json:"unit_price"`
	Quantity  int               `json:"quantity"`
}

// Order is a customer order. OrderID is caller-supplied and unique; Version is
// bumped on every write so concurrent writers surface as conflicts instead of
// silently losing updates.
type Order struct {
	OrderID         string                  `json:"order_id"`
	CustomerName    string                  `json:"customer_name"`
	CustomerEmail   string                  `json:"customer_email,omitempty"`
	CustomerPhone   string                  `json:"customer_phone,omitempty"`
	ShippingAddress string                  `json:"shipping_address"`
	Items           []LineItem              `json:"items"`
	ConsumedAssets  []inventory.Consumption `json:"consumed_assets,omitempty"`
	Total           float64                 `json:"total"`
	Status          Status                  `json:"status"`
	TrackingNumber  string                  `json:"tracking_number,omitempty"`
	Version         int                     `json:"version"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ItemRequest describes one line item at checkout. Dimensions must already be
// in the unit of the product's bounds; the backend does not convert units.
type ItemRequest struct {
	ProductID string            `json:"product_id"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Quantity  int               `json:"quantity"`
	Selection pricing.Selection `json:"selection"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	OrderID         string                  `json:"order_id"`
	CustomerName    string                  `json:"customer_name"`
	CustomerEmail   string                  `json:"customer_email,omitempty"`
	CustomerPhone   string                  `json:"customer_phone,omitempty"`
	ShippingAddress string                  `json:"shipping_address"`
	Items           []ItemRequest           `json:"items"`
	// ConsumedAssets lists the components checkout consumes. When empty, one
	// consumption per line item (componentId = productId) is derived.
	ConsumedAssets []inventory.Consumption `json:"consumed_assets,omitempty"`
}

// CreateOrderResult reports the recorded order plus the advisory inventory
// outcome. Inventory failures never fail the order.
type CreateOrderResult struct {
	Order             *Order   `json:"order"`
	LowStockAlerts    []string `json:"low_stock_alerts,omitempty"`
	MissingComponents []string `json:"missing_components,omitempty"`
	InventoryError    string   `json:"inventory_error,omitempty"`
}

// BatchResult collects per-order outcomes of a batch status update. Failures
// are reported, not rolled back; there is no multi-row transaction to lean on.
type BatchResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed,omitempty"`
}
