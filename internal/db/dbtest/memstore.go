// Package dbtest provides an in-memory db.Store used by tests. It models
// just enough Postgres behavior for this subsystem: per-table column sets
// (so capability probes see real undefined-column errors), equality filters,
// and injectable write failures.
package dbtest

import (
	"context"
	"fmt"
	"sync"

	"gearhouse/catalog/internal/db"
)

type table struct {
	columns map[string]bool
	rows    []map[string]interface{}
}

type MemStore struct {
	mu     sync.Mutex
	tables map[string]*table

	// DDLFunc simulates the in-database exec_ddl function. When nil, ExecDDL
	// reports UNDEFINED_FUNCTION like a deployment without the helper.
	DDLFunc func(ddl string) error

	// Failure injection for write-path tests. A positive value fails the
	// n-th Insert call (1-based) and every later one.
	FailInsertAt int
	FailDelete   bool

	InsertCalls int
	ReloadCalls int
}

var _ db.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{tables: map[string]*table{}}
}

// CreateTable registers a table with the given columns.
func (m *MemStore) CreateTable(name string, columns ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &table{columns: map[string]bool{}}
	for _, c := range columns {
		t.columns[c] = true
	}
	m.tables[name] = t
}

// AddColumn simulates an additive migration.
func (m *MemStore) AddColumn(name, column string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[name]; ok {
		t.columns[column] = true
	}
}

// RowCount reports the stored row count for assertions.
func (m *MemStore) RowCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[name]; ok {
		return len(t.rows)
	}
	return 0
}

// AllRows returns copies of every row in the table.
func (m *MemStore) AllRows(name string) []map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[name]
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, copyRow(r))
	}
	return out
}

// SeedRow appends a row without column validation, for test setup.
func (m *MemStore) SeedRow(name string, row map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[name]; ok {
		t.rows = append(t.rows, copyRow(row))
	}
}

func (m *MemStore) lookup(name string) (*table, error) {
	t, ok := m.tables[name]
	if !ok {
		return nil, &db.StoreError{Code: db.ErrCodeUndefinedTable, Table: name, Message: "relation does not exist"}
	}
	return t, nil
}

func undefinedColumn(tableName, column string) error {
	return &db.StoreError{
		Code:    db.ErrCodeUndefinedColumn,
		Table:   tableName,
		Message: fmt.Sprintf("column %q does not exist", column),
	}
}

func (m *MemStore) Select(ctx context.Context, name string, columns []string, filter db.Filter) ([]map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	for _, c := range columns {
		if !t.columns[c] {
			return nil, undefinedColumn(name, c)
		}
	}
	for c := range filter {
		if !t.columns[c] {
			return nil, undefinedColumn(name, c)
		}
	}

	var out []map[string]interface{}
	for _, row := range t.rows {
		if !matches(row, filter) {
			continue
		}
		if len(columns) == 0 {
			out = append(out, copyRow(row))
			continue
		}
		sel := map[string]interface{}{}
		for _, c := range columns {
			sel[c] = row[c]
		}
		out = append(out, sel)
	}
	return out, nil
}

func (m *MemStore) Insert(ctx context.Context, name string, rows []map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(rows) == 0 {
		return nil
	}

	m.InsertCalls++
	if m.FailInsertAt > 0 && m.InsertCalls >= m.FailInsertAt {
		return &db.StoreError{Code: db.ErrCodeQueryFailed, Table: name, Message: "injected insert failure"}
	}

	t, err := m.lookup(name)
	if err != nil {
		return err
	}
	for _, row := range rows {
		for c := range row {
			if !t.columns[c] {
				return undefinedColumn(name, c)
			}
		}
	}
	for _, row := range rows {
		t.rows = append(t.rows, copyRow(row))
	}
	return nil
}

func (m *MemStore) Update(ctx context.Context, name string, patch map[string]interface{}, filter db.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(name)
	if err != nil {
		return 0, err
	}
	for c := range patch {
		if !t.columns[c] {
			return 0, undefinedColumn(name, c)
		}
	}

	var n int64
	for _, row := range t.rows {
		if matches(row, filter) {
			for k, v := range patch {
				row[k] = v
			}
			n++
		}
	}
	return n, nil
}

func (m *MemStore) Delete(ctx context.Context, name string, filter db.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailDelete {
		return 0, &db.StoreError{Code: db.ErrCodeQueryFailed, Table: name, Message: "injected delete failure"}
	}

	t, err := m.lookup(name)
	if err != nil {
		return 0, err
	}

	kept := t.rows[:0]
	var n int64
	for _, row := range t.rows {
		if matches(row, filter) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	t.rows = kept
	return n, nil
}

func (m *MemStore) Probe(ctx context.Context, name string, column string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(name)
	if err != nil {
		return err
	}
	if !t.columns[column] {
		return undefinedColumn(name, column)
	}
	return nil
}

func (m *MemStore) ExecDDL(ctx context.Context, ddl string) error {
	if m.DDLFunc == nil {
		return &db.StoreError{Code: db.ErrCodeUndefinedFunction, Table: "exec_ddl", Message: "function exec_ddl(text) does not exist"}
	}
	return m.DDLFunc(ddl)
}

func (m *MemStore) NotifySchemaReload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReloadCalls++
	return nil
}

func matches(row map[string]interface{}, filter db.Filter) bool {
	for k, want := range filter {
		if row[k] != want {
			return false
		}
	}
	return true
}

func copyRow(row map[string]interface{}) map[string]interface{} {
	c := make(map[string]interface{}, len(row))
	for k, v := range row {
		c[k] = v
	}
	return c
}
