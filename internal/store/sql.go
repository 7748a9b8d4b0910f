package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects placeholder style, driver and migrations.
type Dialect int

const (
	SQLite Dialect = iota + 1
	Postgres
)

func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite"
	case Postgres:
		return "postgres"
	}
	return "unknown"
}

func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// TimestampLayout is fixed width so created_at sorts correctly as text.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// SQLClient implements Client over database/sql.
type SQLClient struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

var _ Client = (*SQLClient)(nil)

// OpenSQLite opens (creating if needed) the database file at path and migrates it.
func OpenSQLite(path string) (*SQLClient, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(SQLite, path)
}

// OpenPostgres connects to dsn and migrates the schema.
func OpenPostgres(dsn string) (*SQLClient, error) {
	return open(Postgres, dsn)
}

func open(d Dialect, dsn string) (*SQLClient, error) {
	db, err := sql.Open(d.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(d, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if d == SQLite {
		// One writer at a time avoids SQLITE_BUSY under concurrent requests.
		db.SetMaxOpenConns(1)
	}
	return &SQLClient{db: db, dialect: d, now: time.Now}, nil
}

func (s *SQLClient) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLClient) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLClient) List(ctx context.Context, c Collection, ownerID string, q Query) ([]Row, error) {
	schema, err := SchemaOf(c)
	if err != nil {
		return nil, err
	}
	if err := schema.check(c, nil, q); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if schema.Owner != "" {
		where = append(where, schema.Owner+" = ?")
		args = append(args, ownerID)
	}
	for _, f := range q.Filters {
		where = append(where, f.Column+" "+string(f.Op)+" ?")
		args = append(args, f.Value)
	}

	var b strings.Builder
	b.WriteString("SELECT " + strings.Join(schema.Columns, ", ") + " FROM " + string(c))
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts[i] = o.Column + " " + dir
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(b.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c, err)
	}
	defer rows.Close()
	out, err := scanRows(rows, schema.Columns)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c, err)
	}
	return out, nil
}

func (s *SQLClient) Insert(ctx context.Context, c Collection, ownerID string, row Row) (Row, error) {
	schema, err := SchemaOf(c)
	if err != nil {
		return nil, err
	}
	row = s.stamp(schema, ownerID, row)
	if err := schema.check(c, row, Query{}); err != nil {
		return nil, err
	}

	cols, args := columnsOf(schema, row)
	query := "INSERT INTO " + string(c) + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		placeholders(len(cols)) + ") RETURNING " + strings.Join(schema.Columns, ", ")

	out, err := s.queryOne(ctx, schema, query, args)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", c, err)
	}
	slog.DebugContext(ctx, "Record inserted", "collection", c, "id", out[ColumnID])
	return out, nil
}

func (s *SQLClient) Update(ctx context.Context, c Collection, ownerID, id string, patch Row) (Row, error) {
	schema, err := SchemaOf(c)
	if err != nil {
		return nil, err
	}
	patch = mutable(schema, patch)
	if err := schema.check(c, patch, Query{}); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		rows, err := s.List(ctx, c, ownerID, Query{Filters: []Filter{Eq(ColumnID, id)}})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, ErrNotFound
		}
		return rows[0], nil
	}

	cols, args := columnsOf(schema, patch)
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = ?"
	}
	query := "UPDATE " + string(c) + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	if schema.Owner != "" {
		query += " AND " + schema.Owner + " = ?"
		args = append(args, ownerID)
	}
	query += " RETURNING " + strings.Join(schema.Columns, ", ")

	out, err := s.queryOne(ctx, schema, query, args)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", c, id, err)
	}
	return out, nil
}

func (s *SQLClient) Delete(ctx context.Context, c Collection, ownerID, id string) error {
	schema, err := SchemaOf(c)
	if err != nil {
		return err
	}
	query := "DELETE FROM " + string(c) + " WHERE id = ?"
	args := []any{id}
	if schema.Owner != "" {
		query += " AND " + schema.Owner + " = ?"
		args = append(args, ownerID)
	}
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", c, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.DebugContext(ctx, "Delete matched no record", "collection", c, "id", id)
	}
	return nil
}

func (s *SQLClient) Upsert(ctx context.Context, c Collection, row Row, conflictKey string) (Row, error) {
	schema, err := SchemaOf(c)
	if err != nil {
		return nil, err
	}
	if !schema.Has(conflictKey) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, c, conflictKey)
	}
	row = clone(row)
	if _, ok := row[ColumnCreatedAt]; !ok {
		row[ColumnCreatedAt] = s.now().UTC().Format(TimestampLayout)
	}
	if err := schema.check(c, row, Query{}); err != nil {
		return nil, err
	}
	if row[conflictKey] == nil {
		return nil, fmt.Errorf("upsert %s: missing conflict key %s", c, conflictKey)
	}

	cols, args := columnsOf(schema, row)
	var sets []string
	for _, col := range cols {
		if col == conflictKey || col == ColumnCreatedAt {
			continue
		}
		sets = append(sets, col+" = excluded."+col)
	}
	query := "INSERT INTO " + string(c) + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		placeholders(len(cols)) + ") ON CONFLICT (" + conflictKey + ") "
	if len(sets) == 0 {
		query += "DO NOTHING"
	} else {
		query += "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	query += " RETURNING " + strings.Join(schema.Columns, ", ")

	out, err := s.queryOne(ctx, schema, query, args)
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", c, err)
	}
	return out, nil
}

func (s *SQLClient) queryOne(ctx context.Context, schema Schema, query string, args []any) (Row, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := scanRows(rows, schema.Columns)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out[0], nil
}

// stamp assigns id, owner and creation time to a row about to be inserted.
func (s *SQLClient) stamp(schema Schema, ownerID string, row Row) Row {
	return stampRow(schema, ownerID, row, s.now())
}

func stampRow(schema Schema, ownerID string, row Row, now time.Time) Row {
	row = clone(row)
	if schema.Owner != "" {
		row[schema.Owner] = ownerID
	}
	if id, _ := row[ColumnID].(string); id == "" {
		row[ColumnID] = uuid.NewString()
	}
	row[ColumnCreatedAt] = now.UTC().Format(TimestampLayout)
	return row
}

// mutable drops the columns a patch may not change.
func mutable(schema Schema, patch Row) Row {
	out := clone(patch)
	delete(out, ColumnID)
	delete(out, ColumnCreatedAt)
	if schema.Owner != "" {
		delete(out, schema.Owner)
	}
	return out
}

// columnsOf returns row's columns in schema order with matching args.
func columnsOf(schema Schema, row Row) ([]string, []any) {
	var (
		cols []string
		args []any
	)
	for _, col := range schema.Columns {
		if v, ok := row[col]; ok {
			cols = append(cols, col)
			args = append(args, v)
		}
	}
	return cols, args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLClient) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func scanRows(rows *sql.Rows, columns []string) ([]Row, error) {
	var out []Row
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r := make(Row, len(columns))
		for i, col := range columns {
			r[col] = normalize(vals[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalize maps driver values onto the Row value set.
func normalize(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.UTC().Format(TimestampLayout)
	}
	return v
}
