package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
	"github.com/lumenblinds/shades-backend/internal/platform/sheetstore"
)

// SheetName is the backing sheet for orders.
const SheetName = "Orders"

const (
	colOrderID = iota
	colCustomerName
	colCustomerEmail
	colCustomerPhone
	colShippingAddress
	colItems
	colConsumedAssets
	colTotal
	colStatus
	colTrackingNumber
	colVersion
	colCreatedAt
	colUpdatedAt
	colCount
)

var header = []string{
	"order_id", "customer_name", "customer_email", "customer_phone",
	"shipping_address", "items", "consumed_assets", "total",
	"status", "tracking_number", "version", "created_at", "updated_at",
}

type sheetRepo struct{ store sheetstore.Store }

// NewSheetRepository creates a Repository backed by the injected row store.
func NewSheetRepository(store sheetstore.Store) Repository {
	return &sheetRepo{store: store}
}

func (r *sheetRepo) Ensure(ctx context.Context) error {
	return r.store.EnsureSheet(ctx, SheetName, header)
}

func (r *sheetRepo) Insert(ctx context.Context, o *Order) error {
	row, err := encodeOrder(o)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", o.OrderID, err)
	}
	return wrapStoreErr(r.store.Append(ctx, SheetName, row))
}

func (r *sheetRepo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	o, _, err := r.findByID(ctx, orderID)
	return o, err
}

func (r *sheetRepo) List(ctx context.Context) ([]*Order, error) {
	rows, err := r.store.ReadAll(ctx, SheetName)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	orders := make([]*Order, 0, len(rows))
	for i, row := range rows {
		o, err := decodeOrder(row)
		if err != nil {
			return nil, fmt.Errorf("orders row %d: %w", i, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *sheetRepo) UpdateStatus(ctx context.Context, orderID string, status Status, expectedVersion int) error {
	o, idx, err := r.findByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Version != expectedVersion {
		return apperr.New(apperr.KindConflict, "order %s was modified concurrently (version %d, expected %d)", orderID, o.Version, expectedVersion)
	}
	if err := r.store.UpdateCell(ctx, SheetName, idx, colStatus, string(status)); err != nil {
		return wrapStoreErr(err)
	}
	return r.touch(ctx, idx, o.Version)
}

func (r *sheetRepo) UpdateTracking(ctx context.Context, orderID, trackingNumber string, expectedVersion int) error {
	o, idx, err := r.findByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Version != expectedVersion {
		return apperr.New(apperr.KindConflict, "order %s was modified concurrently (version %d, expected %d)", orderID, o.Version, expectedVersion)
	}
	if err := r.store.UpdateCell(ctx, SheetName, idx, colTrackingNumber, trackingNumber); err != nil {
		return wrapStoreErr(err)
	}
	return r.touch(ctx, idx, o.Version)
}

// touch bumps the version and refreshes updated_at. The two cell writes are not
// atomic with the field write before them; that is the substrate's contract.
func (r *sheetRepo) touch(ctx context.Context, idx, version int) error {
	if err := r.store.UpdateCell(ctx, SheetName, idx, colVersion, strconv.Itoa(version+1)); err != nil {
		return wrapStoreErr(err)
	}
	return wrapStoreErr(r.store.UpdateCell(ctx, SheetName, idx, colUpdatedAt, time.Now().UTC().Format(time.RFC3339)))
}

func (r *sheetRepo) findByID(ctx context.Context, orderID string) (*Order, int, error) {
	rows, err := r.store.ReadAll(ctx, SheetName)
	if err != nil {
		return nil, 0, wrapStoreErr(err)
	}
	for i, row := range rows {
		if len(row) > colOrderID && row[colOrderID] == orderID {
			o, err := decodeOrder(row)
			if err != nil {
				return nil, 0, fmt.Errorf("orders row %d: %w", i, err)
			}
			return o, i, nil
		}
	}
	return nil, 0, apperr.New(apperr.KindNotFound, "order %s not found", orderID)
}

// ── row codec ────────────────────────────────────────────────────────────────

func encodeOrder(o *Order) ([]string, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}
	assets, err := json.Marshal(o.ConsumedAssets)
	if err != nil {
		return nil, err
	}
	row := make([]string, colCount)
	row[colOrderID] = o.OrderID
	row[colCustomerName] = o.CustomerName
	row[colCustomerEmail] = o.CustomerEmail
	row[colCustomerPhone] = o.CustomerPhone
	row[colShippingAddress] = o.ShippingAddress
	row[colItems] = string(items)
	row[colConsumedAssets] = string(assets)
	row[colTotal] = strconv.FormatFloat(o.Total, 'f', 2, 64)
	row[colStatus] = string(o.Status)
	row[colTrackingNumber] = o.TrackingNumber
	row[colVersion] = strconv.Itoa(o.Version)
	row[colCreatedAt] = o.CreatedAt.UTC().Format(time.RFC3339)
	row[colUpdatedAt] = o.UpdatedAt.UTC().Format(time.RFC3339)
	return row, nil
}

func decodeOrder(row []string) (*Order, error) {
	if len(row) < colCount {
		return nil, fmt.Errorf("expected %d cells, got %d", colCount, len(row))
	}
	o := &Order{
		OrderID:         row[colOrderID],
		CustomerName:    row[colCustomerName],
		CustomerEmail:   row[colCustomerEmail],
		CustomerPhone:   row[colCustomerPhone],
		ShippingAddress: row[colShippingAddress],
		Status:          Status(row[colStatus]),
		TrackingNumber:  row[colTrackingNumber],
	}
	if cell := row[colItems]; cell != "" && cell != "null" {
		if err := json.Unmarshal([]byte(cell), &o.Items); err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
	}
	if cell := row[colConsumedAssets]; cell != "" && cell != "null" {
		if err := json.Unmarshal([]byte(cell), &o.ConsumedAssets); err != nil {
			return nil, fmt.Errorf("consumed_assets: %w", err)
		}
	}
	var err error
	if o.Total, err = strconv.ParseFloat(row[colTotal], 64); err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}
	if o.Version, err = strconv.Atoi(row[colVersion]); err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	if o.CreatedAt, err = time.Parse(time.RFC3339, row[colCreatedAt]); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if o.UpdatedAt, err = time.Parse(time.RFC3339, row[colUpdatedAt]); err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	return o, nil
}

func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sheetstore.ErrNoSheet) {
		return apperr.New(apperr.KindConfiguration, "order backend not configured: %v", err)
	}
	return err
}
