package fulfillment

import (
	"time"

	"github.com/google/uuid"
)

// FactoryStatusPending is the status every purchase-order line starts in.
// Factory-side states beyond it are opaque free text owned by the factory.
const FactoryStatusPending = "Pending"

// PurchaseOrderLine is the factory-facing projection of one order line item.
// Lines are append-only: created once at dispatch, never deleted, with only
// the factory status and tracking number mutated afterwards.
type PurchaseOrderLine struct {
	ID            uuid.UUID `json:"id"`
	PONumber      string    `json:"po_number"` // the order id
	FabricCode    string    `json:"fabric_code"`
	WidthCm       float64   `json:"width_cm"`
	HeightCm      float64   `json:"height_cm"`
	Mount         string    `json:"mount,omitempty"`
	MotorSpec     string    `json:"motor_spec,omitempty"`
	Quantity      int       `json:"quantity"`
	Sqm           float64   `json:"sqm"`
	FullAddress   string    `json:"full_address"`
	FactoryStatus string    `json:"factory_status"`
	TrackingNo    string    `json:"tracking_no,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// DispatchItem carries the manufacturing fields for one line item. Dimensions
// are final trimmed sizes in centimeters.
type DispatchItem struct {
	FabricCode string  `json:"fabric_code"`
	WidthCm    float64 `json:"width_cm"`
	HeightCm   float64 `json:"height_cm"`
	Mount      string  `json:"mount,omitempty"`
	MotorSpec  string  `json:"motor_spec,omitempty"`
	Quantity   int     `json:"quantity"`
}

// DispatchRequest is the payload for sending an order to the factory.
type DispatchRequest struct {
	OrderID     string         `json:"order_id"`
	FullAddress string         `json:"full_address"`
	Items       []DispatchItem `json:"items"`
}

// FactoryUpdate is one shipment event learned from the factory: a purchase
// order that has a tracking number the order store has not reflected yet.
type FactoryUpdate struct {
	OrderID        string `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
}

// ApplyResult reports the outcome of pushing factory updates into the order
// store. Per-order failures are collected, not fatal.
type ApplyResult struct {
	Applied []string          `json:"applied"`
	Failed  map[string]string `json:"failed,omitempty"`
}
