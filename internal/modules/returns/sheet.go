package returns

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
	"github.com/lumenblinds/shades-backend/internal/platform/sheetstore"
)

// SheetName is the backing sheet for return records.
const SheetName = "Returns"

const (
	colID = iota
	colOrderID
	colDate
	colCustomer
	colReason
	colStatus
	colRefundAmount
	colCount
)

var header = []string{"id", "order_id", "date", "customer", "reason", "status", "refund_amount"}

type sheetRepo struct{ store sheetstore.Store }

// NewSheetRepository creates a Repository backed by the injected row store.
func NewSheetRepository(store sheetstore.Store) Repository {
	return &sheetRepo{store: store}
}

func (r *sheetRepo) Ensure(ctx context.Context) error {
	return r.store.EnsureSheet(ctx, SheetName, header)
}

func (r *sheetRepo) Append(ctx context.Context, ret *Return) error {
	return wrapStoreErr(r.store.Append(ctx, SheetName, encodeReturn(ret)))
}

func (r *sheetRepo) List(ctx context.Context) ([]*Return, error) {
	rows, err := r.store.ReadAll(ctx, SheetName)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	out := make([]*Return, 0, len(rows))
	for i, row := range rows {
		ret, err := decodeReturn(row)
		if err != nil {
			return nil, fmt.Errorf("returns row %d: %w", i, err)
		}
		out = append(out, ret)
	}
	return out, nil
}

func (r *sheetRepo) GetByOrder(ctx context.Context, orderID string) (*Return, error) {
	ret, _, err := r.findByOrder(ctx, orderID)
	return ret, err
}

func (r *sheetRepo) Update(ctx context.Context, orderID string, status Status, refundAmount float64, setRefund bool) error {
	_, idx, err := r.findByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if err := r.store.UpdateCell(ctx, SheetName, idx, colStatus, string(status)); err != nil {
		return wrapStoreErr(err)
	}
	if setRefund {
		cell := strconv.FormatFloat(refundAmount, 'f', 2, 64)
		if err := r.store.UpdateCell(ctx, SheetName, idx, colRefundAmount, cell); err != nil {
			return wrapStoreErr(err)
		}
	}
	return nil
}

func (r *sheetRepo) findByOrder(ctx context.Context, orderID string) (*Return, int, error) {
	rows, err := r.store.ReadAll(ctx, SheetName)
	if err != nil {
		return nil, 0, wrapStoreErr(err)
	}
	for i, row := range rows {
		if len(row) > colOrderID && row[colOrderID] == orderID {
			ret, err := decodeReturn(row)
			if err != nil {
				return nil, 0, fmt.Errorf("returns row %d: %w", i, err)
			}
			return ret, i, nil
		}
	}
	return nil, 0, apperr.New(apperr.KindNotFound, "no return for order %s", orderID)
}

// ── row codec ────────────────────────────────────────────────────────────────

func encodeReturn(ret *Return) []string {
	row := make([]string, colCount)
	row[colID] = ret.ID.String()
	row[colOrderID] = ret.OrderID
	row[colDate] = ret.Date.UTC().Format(time.RFC3339)
	row[colCustomer] = ret.Customer
	row[colReason] = ret.Reason
	row[colStatus] = string(ret.Status)
	row[colRefundAmount] = strconv.FormatFloat(ret.RefundAmount, 'f', 2, 64)
	return row
}

func decodeReturn(row []string) (*Return, error) {
	if len(row) < colCount {
		return nil, fmt.Errorf("expected %d cells, got %d", colCount, len(row))
	}
	id, err := uuid.Parse(row[colID])
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	ret := &Return{
		ID:       id,
		OrderID:  row[colOrderID],
		Customer: row[colCustomer],
		Reason:   row[colReason],
		Status:   Status(row[colStatus]),
	}
	if ret.Date, err = time.Parse(time.RFC3339, row[colDate]); err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	if ret.RefundAmount, err = strconv.ParseFloat(row[colRefundAmount], 64); err != nil {
		return nil, fmt.Errorf("refund_amount: %w", err)
	}
	return ret, nil
}

func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sheetstore.ErrNoSheet) {
		return apperr.New(apperr.KindConfiguration, "returns backend not configured: %v", err)
	}
	return err
}
