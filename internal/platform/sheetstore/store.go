// Package sheetstore abstracts the row store backing every module. The store
// speaks exactly four primitives — read all rows, overwrite all rows, append a
// row, update a single cell — because that is the contract the original
// spreadsheet backend offered, and all repository code is written against it.
package sheetstore

import (
	"context"
	"errors"
)

// ErrNoSheet is returned when a sheet has not been created yet. Repositories
// surface it as a configuration error ("backend not yet configured").
var ErrNoSheet = errors.New("sheet does not exist")

// Store is the injected four-primitive row store. Row and column indexes are
// 0-based and count data rows only; the header row is managed by EnsureSheet
// and never returned by ReadAll.
type Store interface {
	// EnsureSheet creates the sheet with the given header if it does not exist.
	EnsureSheet(ctx context.Context, sheet string, header []string) error

	// ReadAll returns every data row of the sheet.
	ReadAll(ctx context.Context, sheet string) ([][]string, error)

	// OverwriteAll replaces every data row of the sheet.
	OverwriteAll(ctx context.Context, sheet string, rows [][]string) error

	// Append adds one data row at the end of the sheet.
	Append(ctx context.Context, sheet string, row []string) error

	// UpdateCell sets a single cell of an existing data row.
	UpdateCell(ctx context.Context, sheet string, row, col int, value string) error
}
