package sheetstore

import (
	"context"
	"fmt"
	"sync"
)

type memSheet struct {
	header []string
	rows   [][]string
}

// Memory is an in-process Store. It backs dev mode and every repository test.
type Memory struct {
	mu     sync.Mutex
	sheets map[string]*memSheet
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string]*memSheet)}
}

func (m *Memory) EnsureSheet(_ context.Context, sheet string, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[sheet]; !ok {
		m.sheets[sheet] = &memSheet{header: append([]string(nil), header...)}
	}
	return nil
}

func (m *Memory) ReadAll(_ context.Context, sheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%s: %w", sheet, ErrNoSheet)
	}
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (m *Memory) OverwriteAll(_ context.Context, sheet string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%s: %w", sheet, ErrNoSheet)
	}
	s.rows = make([][]string, len(rows))
	for i, r := range rows {
		s.rows[i] = append([]string(nil), r...)
	}
	return nil
}

func (m *Memory) Append(_ context.Context, sheet string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%s: %w", sheet, ErrNoSheet)
	}
	s.rows = append(s.rows, append([]string(nil), row...))
	return nil
}

func (m *Memory) UpdateCell(_ context.Context, sheet string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%s: %w", sheet, ErrNoSheet)
	}
	if row < 0 || row >= len(s.rows) {
		return fmt.Errorf("sheet %s: row %d out of range", sheet, row)
	}
	if col < 0 || col >= len(s.rows[row]) {
		return fmt.Errorf("sheet %s: col %d out of range", sheet, col)
	}
	s.rows[row][col] = value
	return nil
}
