package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
	"github.com/lumenblinds/shades-backend/internal/platform/sheetstore"
)

// SheetName is the backing sheet for the product catalog.
const SheetName = "Products"

// Column layout of the Products sheet. Nested lists are stored as JSON cells.
const (
	colID = iota
	colTitle
	colCategory
	colBasePrice
	colSizeRatio
	colMinWidth
	colMaxWidth
	colMinHeight
	colMaxHeight
	colShowMotor
	colShowColor
	colColors
	colMotorOptions
	colRemoteOptions
	colControlOptions
	colAccessories
	colCurrentStock
	colSafetyStock
	colCount
)

var header = []string{
	"id", "title", "category", "base_price", "size_ratio",
	"min_width", "max_width", "min_height", "max_height",
	"show_motor", "show_color",
	"colors", "motor_options", "remote_options", "control_options", "accessories",
	"current_stock", "safety_stock",
}

type sheetRepo struct{ store sheetstore.Store }

// NewSheetRepository creates a Repository backed by the injected row store.
func NewSheetRepository(store sheetstore.Store) Repository {
	return &sheetRepo{store: store}
}

func (r *sheetRepo) Ensure(ctx context.Context) error {
	return r.store.EnsureSheet(ctx, SheetName, header)
}

func (r *sheetRepo) List(ctx context.Context) ([]*Product, error) {
	rows, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]*Product, 0, len(rows))
	for i, row := range rows {
		p, err := decodeProduct(row)
		if err != nil {
			return nil, fmt.Errorf("products row %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *sheetRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	p, _, err := r.findByID(ctx, id)
	return p, err
}

func (r *sheetRepo) OverwriteAll(ctx context.Context, products []*Product) error {
	rows := make([][]string, len(products))
	for i, p := range products {
		row, err := encodeProduct(p)
		if err != nil {
			return fmt.Errorf("encode product %s: %w", p.ID, err)
		}
		rows[i] = row
	}
	return wrapStoreErr(r.store.OverwriteAll(ctx, SheetName, rows))
}

func (r *sheetRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	_, idx, err := r.findByID(ctx, id)
	if err != nil {
		return err
	}
	return wrapStoreErr(r.store.UpdateCell(ctx, SheetName, idx, colCurrentStock, strconv.Itoa(stock)))
}

func (r *sheetRepo) findByID(ctx context.Context, id string) (*Product, int, error) {
	rows, err := r.readAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	for i, row := range rows {
		if len(row) > colID && row[colID] == id {
			p, err := decodeProduct(row)
			if err != nil {
				return nil, 0, fmt.Errorf("products row %d: %w", i, err)
			}
			return p, i, nil
		}
	}
	return nil, 0, apperr.New(apperr.KindNotFound, "product %s not found", id)
}

func (r *sheetRepo) readAll(ctx context.Context) ([][]string, error) {
	rows, err := r.store.ReadAll(ctx, SheetName)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return rows, nil
}

// ── row codec ────────────────────────────────────────────────────────────────

func encodeProduct(p *Product) ([]string, error) {
	row := make([]string, colCount)
	row[colID] = p.ID
	row[colTitle] = p.Title
	row[colCategory] = p.Category
	row[colBasePrice] = formatFloat(p.BasePrice)
	row[colSizeRatio] = formatFloat(p.SizeRatio)
	row[colMinWidth] = formatFloat(p.MinWidth)
	row[colMaxWidth] = formatFloat(p.MaxWidth)
	row[colMinHeight] = formatFloat(p.MinHeight)
	row[colMaxHeight] = formatFloat(p.MaxHeight)
	row[colShowMotor] = strconv.FormatBool(p.ShowMotor)
	row[colShowColor] = strconv.FormatBool(p.ShowColor)
	for col, v := range map[int]interface{}{
		colColors:         p.Colors,
		colMotorOptions:   p.MotorOptions,
		colRemoteOptions:  p.RemoteOptions,
		colControlOptions: p.ControlOptions,
		colAccessories:    p.Accessories,
	} {
		cell, err := encodeJSONCell(v)
		if err != nil {
			return nil, err
		}
		row[col] = cell
	}
	row[colCurrentStock] = strconv.Itoa(p.CurrentStock)
	row[colSafetyStock] = strconv.Itoa(p.SafetyStock)
	return row, nil
}

func decodeProduct(row []string) (*Product, error) {
	if len(row) < colCount {
		return nil, fmt.Errorf("expected %d cells, got %d", colCount, len(row))
	}
	p := &Product{
		ID:       row[colID],
		Title:    row[colTitle],
		Category: row[colCategory],
	}
	var err error
	if p.BasePrice, err = parseFloat(row[colBasePrice]); err != nil {
		return nil, err
	}
	if p.SizeRatio, err = parseFloat(row[colSizeRatio]); err != nil {
		return nil, err
	}
	if p.MinWidth, err = parseFloat(row[colMinWidth]); err != nil {
		return nil, err
	}
	if p.MaxWidth, err = parseFloat(row[colMaxWidth]); err != nil {
		return nil, err
	}
	if p.MinHeight, err = parseFloat(row[colMinHeight]); err != nil {
		return nil, err
	}
	if p.MaxHeight, err = parseFloat(row[colMaxHeight]); err != nil {
		return nil, err
	}
	p.ShowMotor = row[colShowMotor] == "true"
	p.ShowColor = row[colShowColor] == "true"
	if err := decodeJSONCell(row[colColors], &p.Colors); err != nil {
		return nil, err
	}
	if err := decodeJSONCell(row[colMotorOptions], &p.MotorOptions); err != nil {
		return nil, err
	}
	if err := decodeJSONCell(row[colRemoteOptions], &p.RemoteOptions); err != nil {
		return nil, err
	}
	if err := decodeJSONCell(row[colControlOptions], &p.ControlOptions); err != nil {
		return nil, err
	}
	if err := decodeJSONCell(row[colAccessories], &p.Accessories); err != nil {
		return nil, err
	}
	if p.CurrentStock, err = parseInt(row[colCurrentStock]); err != nil {
		return nil, err
	}
	if p.SafetyStock, err = parseInt(row[colSafetyStock]); err != nil {
		return nil, err
	}
	return p, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func encodeJSONCell(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSONCell(cell string, v interface{}) error {
	if cell == "" || cell == "null" {
		return nil
	}
	return json.Unmarshal([]byte(cell), v)
}

func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sheetstore.ErrNoSheet) {
		return apperr.New(apperr.KindConfiguration, "catalog backend not configured: %v", err)
	}
	return err
}
