// Package inventory is the stock ledger. It owns the mutable stock fields on
// catalog products: consumption deltas at checkout and the carry-forward rule
// during a catalog sync both live here.
package inventory

import (
	"context"
	"fmt"
	"log"

	"github.com/lumenblinds/shades-backend/internal/modules/catalog"
	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
)

// Consumption is one stock decrement against a component.
type Consumption struct {
	ComponentID string `json:"component_id"`
	Quantity    int    `json:"quantity"`
}

// ConsumptionResult reports the outcome of applying a batch of consumptions.
// Stock may go negative; over-consumption is alerted on, never blocked, because
// fulfillment availability takes priority over strict stock gating.
type ConsumptionResult struct {
	// LowStockAlerts lists component ids that dropped below their safety
	// threshold by this application.
	LowStockAlerts []string `json:"low_stock_alerts,omitempty"`

	// Missing lists component ids not present in the catalog; their deltas
	// could not be applied.
	Missing []string `json:"missing,omitempty"`
}

// SyncResult reports the outcome of a catalog sync.
type SyncResult struct {
	Count   int `json:"count"`
	Carried int `json:"carried"`
}

// Defaults for ids that appear in a sync for the first time.
const (
	defaultStock       = 0
	defaultSafetyStock = 10
)

// Service defines the inventory ledger operations.
type Service interface {
	// ApplyConsumption decrements stock per item and reports components that
	// fell below their safety threshold. Best-effort: unknown components are
	// collected on the result, not fatal.
	ApplyConsumption(ctx context.Context, items []Consumption) (*ConsumptionResult, error)

	// ApplySync replaces the catalog snapshot, carrying stock and safety
	// threshold forward for ids present in both snapshots. Ids absent from the
	// incoming snapshot are dropped; new ids get default stock fields.
	ApplySync(ctx context.Context, incoming []*catalog.Product) (*SyncResult, error)
}

type service struct{ products catalog.Repository }

// NewService creates a new inventory ledger over the catalog repository.
func NewService(products catalog.Repository) Service {
	return &service{products: products}
}

func (s *service) ApplyConsumption(ctx context.Context, items []Consumption) (*ConsumptionResult, error) {
	result := &ConsumptionResult{}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.New(apperr.KindValidation, "consumption quantity must be > 0 for component %s", item.ComponentID)
		}
		p, err := s.products.GetByID(ctx, item.ComponentID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				result.Missing = append(result.Missing, item.ComponentID)
				continue
			}
			return nil, err
		}
		remaining := p.CurrentStock - item.Quantity
		if err := s.products.UpdateStock(ctx, item.ComponentID, remaining); err != nil {
			return nil, fmt.Errorf("decrement %s: %w", item.ComponentID, err)
		}
		if remaining < p.SafetyStock {
			result.LowStockAlerts = append(result.LowStockAlerts, item.ComponentID)
			log.Printf("[inventory][service] low stock component=%s remaining=%d threshold=%d", item.ComponentID, remaining, p.SafetyStock)
		}
	}
	return result, nil
}

func (s *service) ApplySync(ctx context.Context, incoming []*catalog.Product) (*SyncResult, error) {
	seen := make(map[string]bool, len(incoming))
	for _, p := range incoming {
		if p.ID == "" {
			return nil, apperr.New(apperr.KindValidation, "product with empty id in sync payload")
		}
		if seen[p.ID] {
			return nil, apperr.New(apperr.KindValidation, "duplicate product id %s in sync payload", p.ID)
		}
		if p.BasePrice < 0 {
			return nil, apperr.New(apperr.KindValidation, "product %s has negative base price", p.ID)
		}
		seen[p.ID] = true
	}

	existing, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	stockByID := make(map[string]*catalog.Product, len(existing))
	for _, p := range existing {
		stockByID[p.ID] = p
	}

	result := &SyncResult{Count: len(incoming)}
	for _, p := range incoming {
		if old, ok := stockByID[p.ID]; ok {
			p.CurrentStock = old.CurrentStock
			p.SafetyStock = old.SafetyStock
			result.Carried++
		} else {
			p.CurrentStock = defaultStock
			p.SafetyStock = defaultSafetyStock
		}
	}
	if err := s.products.OverwriteAll(ctx, incoming); err != nil {
		return nil, fmt.Errorf("write catalog snapshot: %w", err)
	}
	log.Printf("[inventory][service] catalog sync count=%d carried=%d", result.Count, result.Carried)
	return result, nil
}
