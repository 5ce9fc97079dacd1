package catalog

import "context"

// Repository defines the interface for product catalog storage. The snapshot
// is small enough that whole-catalog reads are the native operation; the
// inventory ledger writes stock changes back through UpdateStock.
type Repository interface {
	Ensure(ctx context.Context) error
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	OverwriteAll(ctx context.Context, products []*Product) error
	UpdateStock(ctx context.Context, id string, stock int) error
}
