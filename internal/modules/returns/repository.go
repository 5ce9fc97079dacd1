package returns

import "context"

// Repository defines the interface for return record storage. At most one
// return exists per orderId; updates mutate that record in place.
type Repository interface {
	Ensure(ctx context.Context) error
	Append(ctx context.Context, r *Return) error
	List(ctx context.Context) ([]*Return, error)

	// GetByOrder returns the return for orderID, or a not-found error.
	GetByOrder(ctx context.Context, orderID string) (*Return, error)

	// Update sets the status and, when setRefund is true, the refund amount.
	Update(ctx context.Context, orderID string, status Status, refundAmount float64, setRefund bool) error
}
