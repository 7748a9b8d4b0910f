package services

import (
	"context"
	"fmt"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

// Categories reads the shared expense category taxonomy.
type Categories struct {
	store store.Client
}

func (s *Categories) List(ctx context.Context) ([]core.ExpenseCategory, error) {
	rows, err := s.store.List(ctx, store.ExpenseCategories, "", store.Query{
		Order: []store.Order{store.Asc(store.ColumnCreatedAt)},
	})
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	out := make([]core.ExpenseCategory, len(rows))
	for i, r := range rows {
		out[i] = core.ExpenseCategory{
			ID:    asString(r[store.ColumnID]),
			Name:  asString(r["name"]),
			Color: asString(r["color"]),
			Icon:  asString(r["icon"]),
		}
	}
	return out, nil
}

type Expenses struct {
	store      store.Client
	categories *Categories
	events     events
}

func expenseToRow(e core.Expense) store.Row {
	return store.Row{
		"amount_cents": e.Amount.Cents,
		"description":  e.Description,
		"category_id":  nullableString(e.CategoryID),
		"date":         dateValue(e.Date),
		"location":     e.Location,
		"notes":        e.Notes,
	}
}

func expenseFromRow(r store.Row) core.Expense {
	return core.Expense{
		ID:          asString(r[store.ColumnID]),
		OwnerID:     asString(r[store.ColumnOwner]),
		Amount:      asMoney(r["amount_cents"]),
		Description: asString(r["description"]),
		CategoryID:  asString(r["category_id"]),
		Date:        asDate(r["date"]),
		Location:    asString(r["location"]),
		Notes:       asString(r["notes"]),
		CreatedAt:   asTime(r[store.ColumnCreatedAt]),
	}
}

// List returns the owner's expenses, most recent date first, with their categories.
func (s *Expenses) List(ctx context.Context, ownerID string) ([]core.Expense, error) {
	return s.list(ctx, ownerID, nil, 0)
}

// Between returns the expenses dated within [from, to], most recent first.
func (s *Expenses) Between(ctx context.Context, ownerID string, from, to core.Date) ([]core.Expense, error) {
	return s.list(ctx, ownerID, []store.Filter{
		store.Gte("date", from.String()),
		store.Lte("date", to.String()),
	}, 0)
}

// Recent returns the n most recently dated expenses.
func (s *Expenses) Recent(ctx context.Context, ownerID string, n int) ([]core.Expense, error) {
	return s.list(ctx, ownerID, nil, n)
}

func (s *Expenses) list(ctx context.Context, ownerID string, filters []store.Filter, limit int) ([]core.Expense, error) {
	rows, err := s.store.List(ctx, store.Expenses, ownerID, store.Query{
		Filters: filters,
		Order:   []store.Order{store.Desc("date"), store.Desc(store.ColumnCreatedAt)},
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.Expense, len(rows))
	for i, r := range rows {
		out[i] = expenseFromRow(r)
	}
	if err := s.attachCategories(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Expenses) attachCategories(ctx context.Context, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]*core.ExpenseCategory, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}
	for i := range expenses {
		expenses[i].Category = byID[expenses[i].CategoryID]
	}
	return nil
}

func (s *Expenses) Create(ctx context.Context, ownerID string, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	row, err := s.store.Insert(ctx, store.Expenses, ownerID, expenseToRow(e))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	out := expenseFromRow(row)
	s.events.saved(ctx, store.Expenses, out.ID, ownerID)
	return out, nil
}

func (s *Expenses) Update(ctx context.Context, ownerID, id string, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	row, err := s.store.Update(ctx, store.Expenses, ownerID, id, expenseToRow(e))
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", id, err)
	}
	out := expenseFromRow(row)
	s.events.saved(ctx, store.Expenses, out.ID, ownerID)
	return out, nil
}

func (s *Expenses) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.Delete(ctx, store.Expenses, ownerID, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.events.deleted(ctx, store.Expenses, id, ownerID)
	return nil
}

// Get returns one expense with its category, or store.ErrNotFound.
func (s *Expenses) Get(ctx context.Context, ownerID, id string) (core.Expense, error) {
	rows, err := s.store.List(ctx, store.Expenses, ownerID, store.Query{
		Filters: []store.Filter{store.Eq(store.ColumnID, id)},
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	if len(rows) == 0 {
		return core.Expense{}, store.ErrNotFound
	}
	out := []core.Expense{expenseFromRow(rows[0])}
	if err := s.attachCategories(ctx, out); err != nil {
		return core.Expense{}, err
	}
	return out[0], nil
}
