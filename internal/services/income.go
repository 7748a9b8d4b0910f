package services

import (
	"context"
	"fmt"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

type Incomes struct {
	store  store.Client
	events events
}

func incomeToRow(i core.Income) store.Row {
	return store.Row{
		"amount_cents": i.Amount.Cents,
		"description":  i.Description,
		"category":     i.Category,
		"date":         dateValue(i.Date),
	}
}

func incomeFromRow(r store.Row) core.Income {
	return core.Income{
		ID:          asString(r[store.ColumnID]),
		OwnerID:     asString(r[store.ColumnOwner]),
		Amount:      asMoney(r["amount_cents"]),
		Description: asString(r["description"]),
		Category:    asString(r["category"]),
		Date:        asDate(r["date"]),
		CreatedAt:   asTime(r[store.ColumnCreatedAt]),
	}
}

func (s *Incomes) List(ctx context.Context, ownerID string) ([]core.Income, error) {
	return s.list(ctx, ownerID, nil)
}

// Between returns income dated within [from, to], most recent first.
func (s *Incomes) Between(ctx context.Context, ownerID string, from, to core.Date) ([]core.Income, error) {
	return s.list(ctx, ownerID, []store.Filter{
		store.Gte("date", from.String()),
		store.Lte("date", to.String()),
	})
}

func (s *Incomes) list(ctx context.Context, ownerID string, filters []store.Filter) ([]core.Income, error) {
	rows, err := s.store.List(ctx, store.Income, ownerID, store.Query{
		Filters: filters,
		Order:   []store.Order{store.Desc("date"), store.Desc(store.ColumnCreatedAt)},
	})
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	out := make([]core.Income, len(rows))
	for i, r := range rows {
		out[i] = incomeFromRow(r)
	}
	return out, nil
}

func (s *Incomes) Create(ctx context.Context, ownerID string, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	row, err := s.store.Insert(ctx, store.Income, ownerID, incomeToRow(in))
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}
	out := incomeFromRow(row)
	s.events.saved(ctx, store.Income, out.ID, ownerID)
	return out, nil
}

func (s *Incomes) Update(ctx context.Context, ownerID, id string, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	row, err := s.store.Update(ctx, store.Income, ownerID, id, incomeToRow(in))
	if err != nil {
		return core.Income{}, fmt.Errorf("update income %s: %w", id, err)
	}
	out := incomeFromRow(row)
	s.events.saved(ctx, store.Income, out.ID, ownerID)
	return out, nil
}

func (s *Incomes) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.Delete(ctx, store.Income, ownerID, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	s.events.deleted(ctx, store.Income, id, ownerID)
	return nil
}
