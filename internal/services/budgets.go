package services

import (
	"context"
	"fmt"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

type Budgets struct {
	store  store.Client
	events events
}

func budgetToRow(b core.Budget) store.Row {
	return store.Row{
		"name":         b.Name,
		"amount_cents": b.Amount.Cents,
		"period":       string(b.Period),
		"category":     b.Category,
		"start_date":   dateValue(b.StartDate),
		"end_date":     dateValue(b.EndDate),
		"is_active":    b.IsActive,
	}
}

func budgetFromRow(r store.Row) core.Budget {
	return core.Budget{
		ID:        asString(r[store.ColumnID]),
		OwnerID:   asString(r[store.ColumnOwner]),
		Name:      asString(r["name"]),
		Amount:    asMoney(r["amount_cents"]),
		Period:    core.Period(asString(r["period"])),
		Category:  asString(r["category"]),
		StartDate: asDate(r["start_date"]),
		EndDate:   asDate(r["end_date"]),
		IsActive:  asBool(r["is_active"]),
		CreatedAt: asTime(r[store.ColumnCreatedAt]),
	}
}

func budgetsFromRows(rows []store.Row) []core.Budget {
	out := make([]core.Budget, len(rows))
	for i, r := range rows {
		out[i] = budgetFromRow(r)
	}
	return out
}

// List returns the owner's budgets, newest first.
func (s *Budgets) List(ctx context.Context, ownerID string) ([]core.Budget, error) {
	rows, err := s.store.List(ctx, store.Budgets, ownerID, store.Query{
		Order: []store.Order{store.Desc(store.ColumnCreatedAt)},
	})
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgetsFromRows(rows), nil
}

func (s *Budgets) Create(ctx context.Context, ownerID string, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	row, err := s.store.Insert(ctx, store.Budgets, ownerID, budgetToRow(b))
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	out := budgetFromRow(row)
	s.events.saved(ctx, store.Budgets, out.ID, ownerID)
	return out, nil
}

func (s *Budgets) Update(ctx context.Context, ownerID, id string, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	return s.patch(ctx, ownerID, id, budgetToRow(b))
}

func (s *Budgets) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.Delete(ctx, store.Budgets, ownerID, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	s.events.deleted(ctx, store.Budgets, id, ownerID)
	return nil
}

// SetActive patches only is_active.
func (s *Budgets) SetActive(ctx context.Context, ownerID, id string, active bool) (core.Budget, error) {
	return s.patch(ctx, ownerID, id, store.Row{"is_active": active})
}

func (s *Budgets) patch(ctx context.Context, ownerID, id string, patch store.Row) (core.Budget, error) {
	row, err := s.store.Update(ctx, store.Budgets, ownerID, id, patch)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget %s: %w", id, err)
	}
	out := budgetFromRow(row)
	s.events.saved(ctx, store.Budgets, out.ID, ownerID)
	return out, nil
}

// ActiveMonthly returns the most recently created active monthly budget,
// or nil when the owner has none.
func (s *Budgets) ActiveMonthly(ctx context.Context, ownerID string) (*core.Budget, error) {
	rows, err := s.store.List(ctx, store.Budgets, ownerID, store.Query{
		Filters: []store.Filter{
			store.Eq("is_active", true),
			store.Eq("period", string(core.Monthly)),
		},
		Order: []store.Order{store.Desc(store.ColumnCreatedAt)},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("active monthly budget: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	b := budgetFromRow(rows[0])
	return &b, nil
}
