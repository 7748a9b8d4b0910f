package services

import (
	"context"
	"fmt"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

type Meals struct {
	store  store.Client
	events events
}

func mealToRow(m core.Meal) store.Row {
	n := m.Nutrients
	return store.Row{
		"name":       m.Name,
		"meal_type":  string(m.Type),
		"date":       dateValue(m.Date),
		"calories":   nullableInt(n.Calories),
		"protein":    nullableFloat(n.Protein),
		"carbs":      nullableFloat(n.Carbs),
		"fat":        nullableFloat(n.Fat),
		"fiber":      nullableFloat(n.Fiber),
		"sugar":      nullableFloat(n.Sugar),
		"sodium":     nullableFloat(n.Sodium),
		"cost_cents": nullableMoney(m.Cost),
		"notes":      m.Notes,
	}
}

func mealFromRow(r store.Row) core.Meal {
	return core.Meal{
		ID:      asString(r[store.ColumnID]),
		OwnerID: asString(r[store.ColumnOwner]),
		Name:    asString(r["name"]),
		Type:    core.MealType(asString(r["meal_type"])),
		Date:    asDate(r["date"]),
		Nutrients: core.Nutrients{
			Calories: asOptionalInt(r["calories"]),
			Protein:  asOptionalFloat(r["protein"]),
			Carbs:    asOptionalFloat(r["carbs"]),
			Fat:      asOptionalFloat(r["fat"]),
			Fiber:    asOptionalFloat(r["fiber"]),
			Sugar:    asOptionalFloat(r["sugar"]),
			Sodium:   asOptionalFloat(r["sodium"]),
		},
		Cost:      asOptionalMoney(r["cost_cents"]),
		Notes:     asString(r["notes"]),
		CreatedAt: asTime(r[store.ColumnCreatedAt]),
	}
}

// On returns the meals logged for date in the order they were recorded.
func (s *Meals) On(ctx context.Context, ownerID string, date core.Date) ([]core.Meal, error) {
	rows, err := s.store.List(ctx, store.Meals, ownerID, store.Query{
		Filters: []store.Filter{store.Eq("date", date.String())},
		Order:   []store.Order{store.Asc(store.ColumnCreatedAt)},
	})
	if err != nil {
		return nil, fmt.Errorf("list meals on %s: %w", date, err)
	}
	out := make([]core.Meal, len(rows))
	for i, r := range rows {
		out[i] = mealFromRow(r)
	}
	return out, nil
}

func (s *Meals) Create(ctx context.Context, ownerID string, m core.Meal) (core.Meal, error) {
	if err := m.Validate(); err != nil {
		return core.Meal{}, err
	}
	row, err := s.store.Insert(ctx, store.Meals, ownerID, mealToRow(m))
	if err != nil {
		return core.Meal{}, fmt.Errorf("create meal: %w", err)
	}
	out := mealFromRow(row)
	s.events.saved(ctx, store.Meals, out.ID, ownerID)
	return out, nil
}

func (s *Meals) Update(ctx context.Context, ownerID, id string, m core.Meal) (core.Meal, error) {
	if err := m.Validate(); err != nil {
		return core.Meal{}, err
	}
	row, err := s.store.Update(ctx, store.Meals, ownerID, id, mealToRow(m))
	if err != nil {
		return core.Meal{}, fmt.Errorf("update meal %s: %w", id, err)
	}
	out := mealFromRow(row)
	s.events.saved(ctx, store.Meals, out.ID, ownerID)
	return out, nil
}

func (s *Meals) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.Delete(ctx, store.Meals, ownerID, id); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	s.events.deleted(ctx, store.Meals, id, ownerID)
	return nil
}
