package order

import "context"

// Repository defines the interface for order storage. Orders are append
// oriented: rows are inserted once and mutated only through the narrow status
// and tracking updates, each guarded by an expected-version check.
type Repository interface {
	Ensure(ctx context.Context) error
	Insert(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context) ([]*Order, error)

	// UpdateStatus writes the new status if the stored version still matches
	// expectedVersion, bumping the version. A mismatch is a conflict.
	UpdateStatus(ctx context.Context, orderID string, status Status, expectedVersion int) error

	// UpdateTracking writes the tracking number under the same version guard.
	UpdateTracking(ctx context.Context, orderID, trackingNumber string, expectedVersion int) error
}
