// Package store is the record store client: owner-scoped CRUD over named
// collections, backed by memory, SQLite or PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Collection names a table of records.
type Collection string

const (
	Budgets           Collection = "budgets"
	Expenses          Collection = "expenses"
	ExpenseCategories Collection = "expense_categories"
	Goals             Collection = "goals"
	Meals             Collection = "meals"
	Income            Collection = "income"
	Profiles          Collection = "profiles"
)

// Common column names.
const (
	ColumnID        = "id"
	ColumnOwner     = "user_id"
	ColumnCreatedAt = "created_at"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownColumn     = errors.New("unknown column")
)

// Row is one record keyed by column name. Values are string, int64, float64,
// bool or nil.
type Row map[string]any

// Op is a filter comparison.
type Op string

const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, v any) Filter  { return Filter{Column: column, Op: OpEq, Value: v} }
func Gte(column string, v any) Filter { return Filter{Column: column, Op: OpGte, Value: v} }
func Lte(column string, v any) Filter { return Filter{Column: column, Op: OpLte, Value: v} }

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Query narrows a List call. Zero Limit means no limit.
type Query struct {
	Filters []Filter
	Order   []Order
	Limit   int
}

// Client is the generic data-access interface every domain page uses.
// Operations are scoped to ownerID except Upsert, which is keyed by conflictKey.
type Client interface {
	List(ctx context.Context, c Collection, ownerID string, q Query) ([]Row, error)
	Insert(ctx context.Context, c Collection, ownerID string, row Row) (Row, error)
	Update(ctx context.Context, c Collection, ownerID, id string, patch Row) (Row, error)
	// Delete removes the record; a missing id is not an error.
	Delete(ctx context.Context, c Collection, ownerID, id string) error
	Upsert(ctx context.Context, c Collection, row Row, conflictKey string) (Row, error)
	Ping(ctx context.Context) error
	Close() error
}

// Schema describes the writable columns of a collection and how it is owned.
type Schema struct {
	// Owner is the column compared against the owner id; empty for shared collections.
	Owner   string
	Columns []string
}

var schemas = map[Collection]Schema{
	Budgets: {Owner: ColumnOwner, Columns: []string{
		ColumnID, ColumnOwner, "name", "amount_cents", "period", "category",
		"start_date", "end_date", "is_active", ColumnCreatedAt,
	}},
	Expenses: {Owner: ColumnOwner, Columns: []string{
		ColumnID, ColumnOwner, "amount_cents", "description", "category_id",
		"date", "location", "notes", ColumnCreatedAt,
	}},
	ExpenseCategories: {Columns: []string{
		ColumnID, "name", "color", "icon", ColumnCreatedAt,
	}},
	Goals: {Owner: ColumnOwner, Columns: []string{
		ColumnID, ColumnOwner, "title", "description", "target_amount_cents",
		"current_amount_cents", "target_date", "category", "priority", "status", ColumnCreatedAt,
	}},
	Meals: {Owner: ColumnOwner, Columns: []string{
		ColumnID, ColumnOwner, "name", "meal_type", "date", "calories", "protein",
		"carbs", "fat", "fiber", "sugar", "sodium", "cost_cents", "notes", ColumnCreatedAt,
	}},
	Income: {Owner: ColumnOwner, Columns: []string{
		ColumnID, ColumnOwner, "amount_cents", "description", "category", "date", ColumnCreatedAt,
	}},
	Profiles: {Owner: ColumnID, Columns: []string{
		ColumnID, "email", "full_name", "avatar_url", "updated_at", ColumnCreatedAt,
	}},
}

// SchemaOf returns the schema of c.
func SchemaOf(c Collection) (Schema, error) {
	s, ok := schemas[c]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	return s, nil
}

// Has reports whether column belongs to the schema.
func (s Schema) Has(column string) bool {
	for _, col := range s.Columns {
		if col == column {
			return true
		}
	}
	return false
}

// check rejects rows, filters and orders that name columns outside the schema.
func (s Schema) check(c Collection, row Row, q Query) error {
	for col := range row {
		if !s.Has(col) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, c, col)
		}
	}
	for _, f := range q.Filters {
		if !s.Has(f.Column) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, c, f.Column)
		}
		switch f.Op {
		case OpEq, OpGte, OpLte:
		default:
			return fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}
	for _, o := range q.Order {
		if !s.Has(o.Column) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, c, o.Column)
		}
	}
	return nil
}

func clone(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
