package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Filter is a set of equality conditions ANDed together. An empty filter
// matches every row.
type Filter map[string]interface{}

// Store is the generic query surface the compatibility subsystem consumes.
// It deliberately exposes only what that layer needs: filtered reads and
// writes with structured error codes, a DDL execution channel, and a
// schema-cache reload notification.
type Store interface {
	Select(ctx context.Context, table string, columns []string, filter Filter) ([]map[string]interface{}, error)
	Insert(ctx context.Context, table string, rows []map[string]interface{}) error
	Update(ctx context.Context, table string, patch map[string]interface{}, filter Filter) (int64, error)
	Delete(ctx context.Context, table string, filter Filter) (int64, error)

	// Probe runs a zero-row read against one column so callers can learn
	// whether it exists without touching data.
	Probe(ctx context.Context, table string, column string) error

	// ExecDDL runs a DDL statement through the in-database exec_ddl(text)
	// function. The application role has no direct DDL grant; deployments
	// without the function surface UNDEFINED_FUNCTION and the caller falls
	// back to another channel.
	ExecDDL(ctx context.Context, ddl string) error

	// NotifySchemaReload asks the query layer to drop its cached schema
	// shape. Required after DDL because the layer otherwise keeps serving
	// the old column list.
	NotifySchemaReload(ctx context.Context) error
}

type PostgresStore struct {
	db *sqlx.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// whereClause renders the filter as "WHERE a = $1 AND b = $2" with keys in
// sorted order so generated SQL is stable for logs and tests.
func whereClause(filter Filter, argOffset int) (string, []interface{}) {
	if len(filter) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))
	for i, k := range keys {
		conds = append(conds, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(k), argOffset+i+1))
		args = append(args, filter[k])
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func quoteAll(idents []string) []string {
	quoted := make([]string, len(idents))
	for i, c := range idents {
		quoted[i] = pq.QuoteIdentifier(c)
	}
	return quoted
}

func (s *PostgresStore) Select(ctx context.Context, table string, columns []string, filter Filter) ([]map[string]interface{}, error) {
	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(quoteAll(columns), ", ")
	}

	where, args := whereClause(filter, 0)
	query := fmt.Sprintf("SELECT %s FROM %s%s", cols, pq.QuoteIdentifier(table), where)

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPQ(table, err)
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		m := map[string]interface{}{}
		if err := rows.MapScan(m); err != nil {
			return nil, wrapPQ(table, err)
		}
		normalizeRow(m)
		out = append(out, m)
	}
	return out, wrapPQ(table, rows.Err())
}

func (s *PostgresStore) Insert(ctx context.Context, table string, rows []map[string]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	// Column set comes from the first row; all rows in a batch share a shape.
	keys := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	placeholders := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*len(keys))
	n := 1
	for _, row := range rows {
		ph := make([]string, len(keys))
		for i, k := range keys {
			ph[i] = fmt.Sprintf("$%d", n)
			args = append(args, row[k])
			n++
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		pq.QuoteIdentifier(table),
		strings.Join(quoteAll(keys), ", "),
		strings.Join(placeholders, ", "),
	)

	_, err := s.db.ExecContext(ctx, query, args...)
	return wrapPQ(table, err)
}

func (s *PostgresStore) Update(ctx context.Context, table string, patch map[string]interface{}, filter Filter) (int64, error) {
	if len(patch) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, len(keys))
	args := make([]interface{}, 0, len(keys))
	for i, k := range keys {
		sets[i] = fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(k), i+1)
		args = append(args, patch[k])
	}

	where, whereArgs := whereClause(filter, len(keys))
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s", pq.QuoteIdentifier(table), strings.Join(sets, ", "), where)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapPQ(table, err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

func (s *PostgresStore) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	where, args := whereClause(filter, 0)
	query := fmt.Sprintf("DELETE FROM %s%s", pq.QuoteIdentifier(table), where)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapPQ(table, err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

func (s *PostgresStore) Probe(ctx context.Context, table string, column string) error {
	query := fmt.Sprintf("SELECT %s FROM %s LIMIT 0", pq.QuoteIdentifier(column), pq.QuoteIdentifier(table))
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return wrapPQ(table, err)
	}
	return rows.Close()
}

func (s *PostgresStore) ExecDDL(ctx context.Context, ddl string) error {
	_, err := s.db.ExecContext(ctx, "SELECT exec_ddl($1)", ddl)
	return wrapPQ("exec_ddl", err)
}

func (s *PostgresStore) NotifySchemaReload(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "SELECT pg_notify('schema_reload', 'reload')")
	return wrapPQ("pg_notify", err)
}

// normalizeRow rewrites driver byte slices as strings so consumers see
// uniform values regardless of column type wire encoding.
func normalizeRow(m map[string]interface{}) {
	for k, v := range m {
		if b, ok := v.([]byte); ok {
			m[k] = string(b)
		}
	}
}
