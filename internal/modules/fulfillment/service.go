package fulfillment

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenblinds/shades-backend/internal/modules/order"
	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
)

// Service defines the factory dispatch and tracking-handshake logic.
type Service interface {
	// SendToFactory emits one purchase-order line per item. Re-dispatching an
	// already dispatched order is rejected unless force is set.
	SendToFactory(ctx context.Context, req DispatchRequest, force bool) ([]*PurchaseOrderLine, error)

	// GetFactoryUpdates returns one shipment event per order that has a
	// tracking number on the factory side but is not yet Shipped in the order
	// store. This is the polling half of the tracking handshake.
	GetFactoryUpdates(ctx context.Context) ([]*FactoryUpdate, error)

	// ApplyFactoryUpdates pushes pending shipment events into the order store
	// (tracking number + Shipped status), the other half of the handshake.
	ApplyFactoryUpdates(ctx context.Context) (*ApplyResult, error)

	// UpdateFactoryLine is the factory collaborator's write: an opaque status
	// and/or a tracking number applied to every line of an order.
	UpdateFactoryLine(ctx context.Context, orderID, factoryStatus, trackingNo string) error

	ListLines(ctx context.Context) ([]*PurchaseOrderLine, error)
}

type service struct {
	repo   Repository
	orders order.Service
}

// NewService creates a new fulfillment service.
func NewService(repo Repository, orders order.Service) Service {
	return &service{repo: repo, orders: orders}
}

func (s *service) SendToFactory(ctx context.Context, req DispatchRequest, force bool) ([]*PurchaseOrderLine, error) {
	if req.OrderID == "" {
		return nil, apperr.New(apperr.KindValidation, "order_id is required")
	}
	if len(req.Items) == 0 {
		return nil, apperr.New(apperr.KindValidation, "dispatch must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperr.New(apperr.KindValidation, "quantity must be > 0 for fabric %s", item.FabricCode)
		}
	}

	existing, err := s.repo.ListByOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 && !force {
		return nil, apperr.New(apperr.KindDuplicate, "order %s already dispatched to factory", req.OrderID)
	}

	now := time.Now().UTC()
	lines := make([]*PurchaseOrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, &PurchaseOrderLine{
			ID:            uuid.New(),
			PONumber:      req.OrderID,
			FabricCode:    item.FabricCode,
			WidthCm:       item.WidthCm,
			HeightCm:      item.HeightCm,
			Mount:         item.Mount,
			MotorSpec:     item.MotorSpec,
			Quantity:      item.Quantity,
			Sqm:           sqm(item.WidthCm, item.HeightCm),
			FullAddress:   req.FullAddress,
			FactoryStatus: FactoryStatusPending,
			CreatedAt:     now,
		})
	}
	if err := s.repo.AppendLines(ctx, lines); err != nil {
		return nil, err
	}
	log.Printf("[fulfillment][service] dispatched order=%s lines=%d force=%t", req.OrderID, len(lines), force)

	// The factory sheet is its own source of truth: dispatching an order the
	// order store does not know is allowed. The status mark is best-effort.
	if _, err := s.orders.UpdateStatus(ctx, req.OrderID, string(order.StatusFactoryDispatched)); err != nil {
		log.Printf("[fulfillment][service] could not mark order dispatched order=%s err=%v", req.OrderID, err)
	}
	return lines, nil
}

func (s *service) GetFactoryUpdates(ctx context.Context) ([]*FactoryUpdate, error) {
	lines, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var updates []*FactoryUpdate
	for _, line := range lines {
		if line.TrackingNo == "" || seen[line.PONumber] {
			continue
		}
		seen[line.PONumber] = true

		o, err := s.orders.GetOrder(ctx, line.PONumber)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				log.Printf("[fulfillment][service] tracking for unknown order=%s", line.PONumber)
				continue
			}
			return nil, err
		}
		switch o.Status {
		case order.StatusShipped, order.StatusDelivered, order.StatusCancelled:
			continue
		}
		updates = append(updates, &FactoryUpdate{
			OrderID:        line.PONumber,
			TrackingNumber: line.TrackingNo,
			Status:         string(order.StatusShipped),
		})
	}
	return updates, nil
}

func (s *service) ApplyFactoryUpdates(ctx context.Context) (*ApplyResult, error) {
	updates, err := s.GetFactoryUpdates(ctx)
	if err != nil {
		return nil, err
	}
	result := &ApplyResult{Applied: []string{}}
	for _, u := range updates {
		if err := s.apply(ctx, u); err != nil {
			if result.Failed == nil {
				result.Failed = make(map[string]string)
			}
			result.Failed[u.OrderID] = err.Error()
			continue
		}
		result.Applied = append(result.Applied, u.OrderID)
	}
	return result, nil
}

func (s *service) apply(ctx context.Context, u *FactoryUpdate) error {
	if err := s.orders.UpdateTracking(ctx, u.OrderID, u.TrackingNumber); err != nil {
		return err
	}
	_, err := s.orders.UpdateStatus(ctx, u.OrderID, u.Status)
	return err
}

func (s *service) UpdateFactoryLine(ctx context.Context, orderID, factoryStatus, trackingNo string) error {
	if orderID == "" {
		return apperr.New(apperr.KindValidation, "order_id is required")
	}
	if factoryStatus == "" && trackingNo == "" {
		return apperr.New(apperr.KindValidation, "nothing to update")
	}
	n, err := s.repo.UpdateLines(ctx, orderID, factoryStatus, trackingNo)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.New(apperr.KindNotFound, "no factory lines for order %s", orderID)
	}
	return nil
}

func (s *service) ListLines(ctx context.Context) ([]*PurchaseOrderLine, error) {
	return s.repo.List(ctx)
}

func sqm(widthCm, heightCm float64) float64 {
	v, _ := decimal.NewFromFloat(widthCm).
		Mul(decimal.NewFromFloat(heightCm)).
		Div(decimal.NewFromInt(10000)).
		Round(2).Float64()
	return v
}
