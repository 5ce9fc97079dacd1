package fulfillment

import "context"

// Repository defines the interface for purchase-order line storage.
type Repository interface {
	Ensure(ctx context.Context) error
	AppendLines(ctx context.Context, lines []*PurchaseOrderLine) error
	List(ctx context.Context) ([]*PurchaseOrderLine, error)
	ListByOrder(ctx context.Context, orderID string) ([]*PurchaseOrderLine, error)

	// UpdateLines sets the factory status and/or tracking number on every line
	// of an order (empty arguments leave the field untouched) and returns the
	// number of lines updated.
	UpdateLines(ctx context.Context, orderID, factoryStatus, trackingNo string) (int, error)
}
