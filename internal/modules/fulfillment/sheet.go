package fulfillment

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

// SheetName is the backing sheet for factory purchase orders.
const SheetName = "FactoryPOs"

const (
	colID = iota
	colPONumber
	colFabricCode
	colWidthCm
	colHeightCm
	colMount
	colMotorSpec
	colQuantity
	colSqm
	colFullAddress
	colFactoryStatus
	colTrackingNo
	colCreatedAt
	colCount
)

var header = []string{
	"id", "po_number", "fabric_code", "width_cm", "height_cm", "mount",
	"motor_spec", "quantity", "sqm", "full_address", "factory_status",
	"tracking_no", "created_at",
}

type sheetRepo struct{ store sheetstore.Store }

// NewSheetRepository creates a Repository backed by the injected row store.
func NewSheetRepository(store sheetstore.Store) Repository {
	return &sheetRepo{store: store}
}

func (r *sheetRepo) Ensure(ctx context.Context) error {
	return r.store.EnsureSheet(ctx, SheetName, header)
}

func (r *sheetRepo) AppendLines(ctx context.Context, lines []*PurchaseOrderLine) error {
	for _, line := range lines {
		if err := r.store.Append(ctx, SheetName, encodeLine(line)); err != nil {
			return wrapStoreErr(err)
		}
	}
	return nil
}

func (r *sheetRepo) List(ctx context.Context) ([]*PurchaseOrderLine, error) {
	rows, err := r.store.ReadAll(ctx, SheetName)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	lines := make([]*PurchaseOrderLine, 0, len(rows))
	for i, row := range rows {
		line, err := decodeLine(row)
		if err != nil {
			return nil, fmt.Errorf("factory po row %d: %w", i, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *sheetRepo) ListByOrder(ctx context.Context, orderID string) ([]*PurchaseOrderLine, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var lines []*PurchaseOrderLine
	for _, line := range all {
		if line.PONumber == orderID {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (r *sheetRepo) UpdateLines(ctx context.Context, orderID, factoryStatus, trackingNo string) (int, error) {
	rows, err := r.store.ReadAll(ctx, SheetName)
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	updated := 0
	for i, row := range rows {
		if len(row) <= colPONumber || row[colPONumber] != orderID {
			continue
		}
		if factoryStatus != "" {
			if err := r.store.UpdateCell(ctx, SheetName, i, colFactoryStatus, factoryStatus); err != nil {
				return updated, wrapStoreErr(err)
			}
		}
		if trackingNo != "" {
			if err := r.store.UpdateCell(ctx, SheetName, i, colTrackingNo, trackingNo); err != nil {
				return updated, wrapStoreErr(err)
			}
		}
		updated++
	}
	return updated, nil
}

// ── row codec ────────────────────────────────────────────────────────────────

func encodeLine(l *PurchaseOrderLine) []string {
	row := make([]string, colCount)
	row[colID] = l.ID.String()
	row[colPONumber] = l.PONumber
	row[colFabricCode] = l.FabricCode
	row[colWidthCm] = strconv.FormatFloat(l.WidthCm, 'f', -1, 64)
	row[colHeightCm] = strconv.FormatFloat(l.HeightCm, 'f', -1, 64)
	row[colMount] = l.Mount
	row[colMotorSpec] = l.MotorSpec
	row[colQuantity] = strconv.Itoa(l.Quantity)
	row[colSqm] = strconv.FormatFloat(l.Sqm, 'f', 2, 64)
	row[colFullAddress] = l.FullAddress
	row[colFactoryStatus] = l.FactoryStatus
	row[colTrackingNo] = l.TrackingNo
	row[colCreatedAt] = l.CreatedAt.UTC().Format(time.RFC3339)
	return row
}

func decodeLine(row []string) (*PurchaseOrderLine, error) {
	if len(row) < colCount {
		return nil, fmt.Errorf("expected %d cells, got %d", colCount, len(row))
	}
	id, err := uuid.Parse(row[colID])
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	l := &PurchaseOrderLine{
		ID:            id,
		PONumber:      row[colPONumber],
		FabricCode:    row[colFabricCode],
		Mount:         row[colMount],
		MotorSpec:     row[colMotorSpec],
		FullAddress:   row[colFullAddress],
		FactoryStatus: row[colFactoryStatus],
		TrackingNo:    row[colTrackingNo],
	}
	if l.WidthCm, err = strconv.ParseFloat(row[colWidthCm], 64); err != nil {
		return nil, fmt.Errorf("width_cm: %w", err)
	}
	if l.HeightCm, err = strconv.ParseFloat(row[colHeightCm], 64); err != nil {
		return nil, fmt.Errorf("height_cm: %w", err)
	}
	if l.Quantity, err = strconv.Atoi(row[colQuantity]); err != nil {
		return nil, fmt.Errorf("quantity: %w", err)
	}
	if l.Sqm, err = strconv.ParseFloat(row[colSqm], 64); err != nil {
		return nil, fmt.Errorf("sqm: %w", err)
	}
	if l.CreatedAt, err = time.Parse(time.RFC3339, row[colCreatedAt]); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	return l, nil
}

func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sheetstore.ErrNoSheet) {
		return apperr.New(apperr.KindConfiguration, "factory backend not configured: %v", err)
	}
	return err
}
