package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// PGClient implements Client against a Postgres-flavored mirror over
// database/sql. The handle is constructed explicitly by the process root and
// passed down; there is no lazily initialized package-level client.
type PGClient struct {
	db *sql.DB
}

// Open connects to the mirror and verifies the connection. A failure here is
// a ConnectionFailure: there is no point retrying a broken client
// acquisition at this level.
func Open(dsn string) (*PGClient, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, Fail(ConnectionFailure, err, "open mirror connection")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, Fail(ConnectionFailure, err, "ping mirror")
	}
	return &PGClient{db: db}, nil
}

// NewPGClient wraps an existing handle, mainly for tests and callers that
// manage pooling themselves.
func NewPGClient(db *sql.DB) *PGClient { return &PGClient{db: db} }

// Close releases the underlying pool.
func (c *PGClient) Close() error { return c.db.Close() }

func (c *PGClient) Select(ctx context.Context, table string, columns []string, filters Record, limit int) ([]Record, error) {
	colExpr := "*"
	if len(columns) > 0 {
		colExpr = strings.Join(columns, ", ")
	}
	query := fmt.Sprintf("SELECT %s FROM %s", colExpr, table)
	var args []any
	if len(filters) > 0 {
		conds := make([]string, 0, len(filters))
		for _, k := range sortedKeys(filters) {
			args = append(args, filters[k])
			conds = append(conds, fmt.Sprintf("%s = $%d", k, len(args)))
		}
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Fail(QueryFailure, err, "select from %s", table)
	}
	defer rows.Close()
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, Fail(QueryFailure, err, "scan rows from %s", table)
	}
	return recs, nil
}

func (c *PGClient) Insert(ctx context.Context, table string, rec Record) (Record, error) {
	keys := sortedKeys(rec)
	cols := make([]string, len(keys))
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		cols[i] = k
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rec[k]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Fail(DataFailure, err, "insert into %s", table)
	}
	defer rows.Close()
	return firstRecord(rows, table)
}

func (c *PGClient) Update(ctx context.Context, table, keyColumn string, id any, rec Record) (Record, error) {
	keys := sortedKeys(rec)
	sets := make([]string, 0, len(keys))
	var args []any
	for _, k := range keys {
		if k == keyColumn {
			continue
		}
		args = append(args, rec[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	if len(sets) == 0 {
		return nil, Fail(DataFailure, nil, "update %s: record has no fields besides %s", table, keyColumn)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING *",
		table, strings.Join(sets, ", "), keyColumn, len(args))
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Fail(DataFailure, err, "update %s", table)
	}
	defer rows.Close()
	return firstRecord(rows, table)
}

func (c *PGClient) Delete(ctx context.Context, table, keyColumn string, id any) (int64, error) {
	res, err := c.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, keyColumn), id)
	if err != nil {
		return 0, Fail(DataFailure, err, "delete from %s", table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, Fail(DataFailure, err, "delete from %s: affected rows", table)
	}
	return n, nil
}

func (c *PGClient) Execute(ctx context.Context, stmt string) ([]Record, error) {
	// Query also carries DDL through lib/pq; statements without a result set
	// just come back with zero rows.
	rows, err := c.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, Fail(QueryFailure, err, "execute statement")
	}
	defer rows.Close()
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, Fail(QueryFailure, err, "scan statement result")
	}
	return recs, nil
}

func (c *PGClient) Call(ctx context.Context, procedure string, params Record) ([]Record, error) {
	keys := sortedKeys(params)
	argExprs := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		argExprs[i] = fmt.Sprintf("%s := $%d", k, i+1)
		args[i] = params[k]
	}
	query := fmt.Sprintf("SELECT * FROM %s(%s)", procedure, strings.Join(argExprs, ", "))
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Fail(QueryFailure, err, "call %s", procedure)
	}
	defer rows.Close()
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, Fail(QueryFailure, err, "scan result of %s", procedure)
	}
	return recs, nil
}

func firstRecord(rows *sql.Rows, table string) (Record, error) {
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, Fail(DataFailure, err, "scan echo from %s", table)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var recs []Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(Record, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[col] = string(b)
			} else {
				rec[col] = vals[i]
			}
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func sortedKeys(m Record) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
