package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumenblinds/shades-backend/internal/modules/catalog"
	"github.com/lumenblinds/shades-backend/internal/modules/inventory"
	"github.com/lumenblinds/shades-backend/internal/modules/pricing"
	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
)

// Service defines the order lifecycle business logic.
type Service interface {
	// CreateOrder validates the cart, computes prices, records the order, and
	// applies inventory consumption best-effort. Retrying with the same
	// orderId is rejected as a duplicate, never reapplied.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error)

	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListOrders(ctx context.Context) ([]*Order, error)

	// UpdateStatus advances an order; backward moves are rejected.
	UpdateStatus(ctx context.Context, orderID, status string) (*Order, error)

	// BatchUpdateStatus applies UpdateStatus per id, collecting failures.
	BatchUpdateStatus(ctx context.Context, orderIDs []string, status string) (*BatchResult, error)

	// UpdateTracking sets the tracking number. Setting the same value again is
	// a no-op.
	UpdateTracking(ctx context.Context, orderID, trackingNumber string) error

	CancelOrder(ctx context.Context, orderID string) error
}

type service struct {
	repo     Repository
	products catalog.Repository
	ledger   inventory.Service
	mode     pricing.Mode
}

// NewService creates a new order service. mode controls how the pricing engine
// treats unmatched option names.
func NewService(repo Repository, products catalog.Repository, ledger inventory.Service, mode pricing.Mode) Service {
	return &service{repo: repo, products: products, ledger: ledger, mode: mode}
}

func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if req.OrderID == "" {
		return nil, apperr.New(apperr.KindValidation, "order_id is required")
	}
	if req.CustomerName == "" {
		return nil, apperr.New(apperr.KindValidation, "customer_name is required")
	}
	if req.ShippingAddress == "" {
		return nil, apperr.New(apperr.KindValidation, "shipping_address is required")
	}
	if len(req.Items) == 0 {
		return nil, apperr.New(apperr.KindValidation, "order must contain at least one item")
	}

	if _, err := s.repo.GetByID(ctx, req.OrderID); err == nil {
		return nil, apperr.New(apperr.KindDuplicate, "order %s already exists", req.OrderID)
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}

	items := make([]LineItem, 0, len(req.Items))
	total := decimal.Zero
	for _, ir := range req.Items {
		item, err := s.buildItem(ctx, ir)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
		total = total.Add(decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	assets := req.ConsumedAssets
	if len(assets) == 0 {
		for _, item := range items {
			assets = append(assets, inventory.Consumption{ComponentID: item.ProductID, Quantity: item.Quantity})
		}
	}

	now := time.Now().UTC()
	totalF, _ := total.Round(2).Float64()
	o := &Order{
		OrderID:         req.OrderID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
		ConsumedAssets:  assets,
		Total:           totalF,
		Status:          StatusReceived,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("record order %s: %w", req.OrderID, err)
	}

	// Inventory is advisory: the order is already recorded, so consumption
	// failures are reported on the result and reconciled downstream, never
	// unwound here.
	result := &CreateOrderResult{Order: o}
	consumed, err := s.ledger.ApplyConsumption(ctx, assets)
	if err != nil {
		log.Printf("[order][service] inventory consumption failed order=%s err=%v", req.OrderID, err)
		result.InventoryError = err.Error()
		return result, nil
	}
	result.LowStockAlerts = consumed.LowStockAlerts
	result.MissingComponents = consumed.Missing
	log.Printf("[order][service] order created order=%s items=%d total=%.2f", req.OrderID, len(items), o.Total)
	return result, nil
}

func (s *service) buildItem(ctx context.Context, ir ItemRequest) (*LineItem, error) {
	if ir.Quantity <= 0 {
		return nil, apperr.New(apperr.KindValidation, "quantity must be > 0 for product %s", ir.ProductID)
	}
	p, err := s.products.GetByID(ctx, ir.ProductID)
	if err != nil {
		return nil, err
	}
	if ir.Width < p.MinWidth || ir.Width > p.MaxWidth {
		return nil, apperr.New(apperr.KindValidation, "product %s: width %.2f outside bounds [%.2f, %.2f]", p.ID, ir.Width, p.MinWidth, p.MaxWidth)
	}
	if ir.Height < p.MinHeight || ir.Height > p.MaxHeight {
		return nil, apperr.New(apperr.KindValidation, "product %s: height %.2f outside bounds [%.2f, %.2f]", p.ID, ir.Height, p.MinHeight, p.MaxHeight)
	}
	if err := s.checkColor(p, ir.Selection.Color); err != nil {
		return nil, err
	}
	price, err := pricing.ComputePrice(p, ir.Width, ir.Height, ir.Selection, s.mode)
	if err != nil {
		return nil, err
	}
	return &LineItem{
		ProductID: ir.ProductID,
		Width:     ir.Width,
		Height:    ir.Height,
		Selection: ir.Selection,
		UnitPrice: price,
		Quantity:  ir.Quantity,
	}, nil
}

func (s *service) checkColor(p *catalog.Product, color string) error {
	if color == "" {
		return nil
	}
	if !p.ShowColor {
		return apperr.New(apperr.KindValidation, "product %s does not support color selection", p.ID)
	}
	for _, c := range p.Colors {
		if c.Name == color {
			return nil
		}
	}
	if s.mode == pricing.Strict {
		return apperr.New(apperr.KindValidation, "product %s has no color named %q", p.ID, color)
	}
	return nil
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) ListOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateStatus(ctx context.Context, orderID, status string) (*Order, error) {
	next, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, next) {
		return nil, apperr.New(apperr.KindInvalidTransition, "order %s cannot move from %s to %s", orderID, o.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, orderID, next, o.Version); err != nil {
		return nil, err
	}
	log.Printf("[order][service] status updated order=%s from=%s to=%s", orderID, o.Status, next)
	o.Status = next
	o.Version++
	return o, nil
}

func (s *service) BatchUpdateStatus(ctx context.Context, orderIDs []string, status string) (*BatchResult, error) {
	if _, err := ParseStatus(status); err != nil {
		return nil, err
	}
	result := &BatchResult{Updated: []string{}}
	for _, id := range orderIDs {
		if _, err := s.UpdateStatus(ctx, id, status); err != nil {
			if result.Failed == nil {
				result.Failed = make(map[string]string)
			}
			result.Failed[id] = err.Error()
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	return result, nil
}

func (s *service) UpdateTracking(ctx context.Context, orderID, trackingNumber string) error {
	if trackingNumber == "" {
		return apperr.New(apperr.KindValidation, "tracking number is required")
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.TrackingNumber == trackingNumber {
		return nil
	}
	if o.TrackingNumber != "" {
		log.Printf("[order][service] tracking overwrite order=%s old=%s new=%s", orderID, o.TrackingNumber, trackingNumber)
	}
	return s.repo.UpdateTracking(ctx, orderID, trackingNumber, o.Version)
}

func (s *service) CancelOrder(ctx context.Context, orderID string) error {
	_, err := s.UpdateStatus(ctx, orderID, string(StatusCancelled))
	return err
}
