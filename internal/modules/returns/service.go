package returns

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lumenblinds/shades-backend/internal/modules/order"
	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
)

// Service defines the return/refund tracking logic.
type Service interface {
	// CreateOrUpdateReturn advances the return for an order, creating the
	// record if none exists. In lenient mode an unknown orderId still gets a
	// record (customer "Unknown") so out-of-band updates are never lost; in
	// strict mode it is a not-found error.
	CreateOrUpdateReturn(ctx context.Context, req UpdateReturnRequest) (*Return, error)

	ListReturns(ctx context.Context) ([]*Return, error)
}

type service struct {
	repo   Repository
	orders order.Repository
	strict bool
}

// NewService creates a new return tracker. strict controls how updates for
// orderIds without an order on file are handled.
func NewService(repo Repository, orders order.Repository, strict bool) Service {
	return &service{repo: repo, orders: orders, strict: strict}
}

func (s *service) CreateOrUpdateReturn(ctx context.Context, req UpdateReturnRequest) (*Return, error) {
	if req.OrderID == "" {
		return nil, apperr.New(apperr.KindValidation, "order_id is required")
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByOrder(ctx, req.OrderID)
	switch {
	case err == nil:
		if statusRank[next] <= statusRank[existing.Status] {
			return nil, apperr.New(apperr.KindInvalidTransition, "return for order %s cannot move from %s to %s", req.OrderID, existing.Status, next)
		}
		setRefund := req.RefundAmount > 0
		if err := s.repo.Update(ctx, req.OrderID, next, req.RefundAmount, setRefund); err != nil {
			return nil, err
		}
		existing.Status = next
		if setRefund {
			existing.RefundAmount = req.RefundAmount
		}
		return existing, nil

	case apperr.KindOf(err) == apperr.KindNotFound:
		return s.create(ctx, req, next)

	default:
		return nil, err
	}
}

func (s *service) create(ctx context.Context, req UpdateReturnRequest, status Status) (*Return, error) {
	customer := req.Customer
	reason := req.Reason

	o, err := s.orders.GetByID(ctx, req.OrderID)
	switch {
	case err == nil:
		if customer == "" {
			customer = o.CustomerName
		}
	case apperr.KindOf(err) == apperr.KindNotFound:
		if s.strict {
			return nil, apperr.New(apperr.KindNotFound, "order %s not found", req.OrderID)
		}
		// Out-of-band recovery: keep the update rather than failing it. The
		// record is findable later under the unknown-customer marker.
		if customer == "" {
			customer = UnknownCustomer
		}
		if reason == "" {
			reason = ManualUpdateReason
		}
		log.Printf("[returns][service] return for unknown order=%s recorded as %q", req.OrderID, UnknownCustomer)
	default:
		return nil, err
	}

	ret := &Return{
		ID:           uuid.New(),
		OrderID:      req.OrderID,
		Date:         time.Now().UTC(),
		Customer:     customer,
		Reason:       reason,
		Status:       status,
		RefundAmount: req.RefundAmount,
	}
	if err := s.repo.Append(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *service) ListReturns(ctx context.Context) ([]*Return, error) {
	return s.repo.List(ctx)
}
