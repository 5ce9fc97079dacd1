package sheetstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Postgres persists sheets in two tables: one for headers, one for rows. Each
// row is a TEXT[] of cells, addressed by (sheet, row_idx), which keeps the
// four-primitive contract honest — there is no richer query surface to lean on.
type Postgres struct{ db *sql.DB }

// NewPostgres creates a Postgres-backed store.
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) EnsureSheet(ctx context.Context, sheet string, header []string) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sheet_headers (
		  sheet  TEXT PRIMARY KEY,
		  header TEXT[] NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure sheet_headers: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sheet_rows (
		  sheet   TEXT NOT NULL,
		  row_idx INT  NOT NULL,
		  cells   TEXT[] NOT NULL,
		  PRIMARY KEY (sheet, row_idx)
		)`)
	if err != nil {
		return fmt.Errorf("ensure sheet_rows: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO sheet_headers (sheet, header) VALUES ($1, $2)
		ON CONFLICT (sheet) DO NOTHING`,
		sheet, pq.Array(header))
	if err != nil {
		return fmt.Errorf("ensure sheet %s: %w", sheet, err)
	}
	return nil
}

func (p *Postgres) ReadAll(ctx context.Context, sheet string) ([][]string, error) {
	if err := p.checkSheet(ctx, sheet); err != nil {
		return nil, err
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet=$1 ORDER BY row_idx`, sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells pq.StringArray
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("scan sheet %s: %w", sheet, err)
		}
		out = append(out, []string(cells))
	}
	return out, rows.Err()
}

// OverwriteAll replaces the sheet contents inside a single transaction. This is
// the only multi-row atomic operation the store offers.
func (p *Postgres) OverwriteAll(ctx context.Context, sheet string, rows [][]string) error {
	if err := p.checkSheet(ctx, sheet); err != nil {
		return err
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet=$1`, sheet); err != nil {
		return fmt.Errorf("clear sheet %s: %w", sheet, err)
	}
	for i, row := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sheet_rows (sheet, row_idx, cells) VALUES ($1, $2, $3)`,
			sheet, i, pq.Array(row))
		if err != nil {
			return fmt.Errorf("overwrite sheet %s row %d: %w", sheet, i, err)
		}
	}
	return tx.Commit()
}

func (p *Postgres) Append(ctx context.Context, sheet string, row []string) error {
	if err := p.checkSheet(ctx, sheet); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO sheet_rows (sheet, row_idx, cells)
		SELECT $1, COALESCE(MAX(row_idx)+1, 0), $2 FROM sheet_rows WHERE sheet=$1`,
		sheet, pq.Array(row))
	if err != nil {
		return fmt.Errorf("append sheet %s: %w", sheet, err)
	}
	return nil
}

func (p *Postgres) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	if err := p.checkSheet(ctx, sheet); err != nil {
		return err
	}
	// Postgres arrays are 1-based.
	res, err := p.db.ExecContext(ctx,
		`UPDATE sheet_rows SET cells[$3]=$4 WHERE sheet=$1 AND row_idx=$2`,
		sheet, row, col+1, value)
	if err != nil {
		return fmt.Errorf("update sheet %s cell (%d,%d): %w", sheet, row, col, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("sheet %s: row %d out of range", sheet, row)
	}
	return nil
}

func (p *Postgres) checkSheet(ctx context.Context, sheet string) error {
	var one int
	err := p.db.QueryRowContext(ctx,
		`SELECT 1 FROM sheet_headers WHERE sheet=$1`, sheet).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s: %w", sheet, ErrNoSheet)
	}
	if err != nil {
		// A missing table means the schema was never ensured.
		return fmt.Errorf("%s: %w", sheet, ErrNoSheet)
	}
	return nil
}
