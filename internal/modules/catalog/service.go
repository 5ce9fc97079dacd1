package catalog

import "context"

// Service defines catalog read operations. Catalog writes happen through the
// inventory ledger's sync, which owns the stock carry-forward rule.
type Service interface {
	ListProducts(ctx context.Context) ([]*Product, error)
	ListSummaries(ctx context.Context) ([]*Summary, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}

func (s *service) ListSummaries(ctx context.Context) ([]*Summary, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]*Summary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, &Summary{
			ID:          p.ID,
			Title:       p.Title,
			Category:    p.Category,
			Price:       p.BasePrice,
			StockQty:    p.CurrentStock,
			SafetyStock: p.SafetyStock,
		})
	}
	return summaries, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}
