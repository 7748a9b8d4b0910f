package services

import (
	"context"
	"fmt"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

type Goals struct {
	store  store.Client
	events events
}

func goalToRow(g core.Goal) store.Row {
	return store.Row{
		"title":                g.Title,
		"description":          g.Description,
		"target_amount_cents":  nullableMoney(g.TargetAmount),
		"current_amount_cents": g.CurrentAmount.Cents,
		"target_date":          dateValue(g.TargetDate),
		"category":             string(g.Category),
		"priority":             string(g.Priority),
		"status":               string(g.Status),
	}
}

func goalFromRow(r store.Row) core.Goal {
	return core.Goal{
		ID:            asString(r[store.ColumnID]),
		OwnerID:       asString(r[store.ColumnOwner]),
		Title:         asString(r["title"]),
		Description:   asString(r["description"]),
		TargetAmount:  asOptionalMoney(r["target_amount_cents"]),
		CurrentAmount: asMoney(r["current_amount_cents"]),
		TargetDate:    asDate(r["target_date"]),
		Category:      core.GoalCategory(asString(r["category"])),
		Priority:      core.Priority(asString(r["priority"])),
		Status:        core.GoalStatus(asString(r["status"])),
		CreatedAt:     asTime(r[store.ColumnCreatedAt]),
	}
}

// List returns the owner's goals, newest first.
func (s *Goals) List(ctx context.Context, ownerID string) ([]core.Goal, error) {
	rows, err := s.store.List(ctx, store.Goals, ownerID, store.Query{
		Order: []store.Order{store.Desc(store.ColumnCreatedAt)},
	})
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]core.Goal, len(rows))
	for i, r := range rows {
		out[i] = goalFromRow(r)
	}
	return out, nil
}

func (s *Goals) Create(ctx context.Context, ownerID string, g core.Goal) (core.Goal, error) {
	if g.Status == "" {
		g.Status = core.StatusActive
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	row, err := s.store.Insert(ctx, store.Goals, ownerID, goalToRow(g))
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	out := goalFromRow(row)
	s.events.saved(ctx, store.Goals, out.ID, ownerID)
	return out, nil
}

func (s *Goals) Update(ctx context.Context, ownerID, id string, g core.Goal) (core.Goal, error) {
	if g.Status == "" {
		g.Status = core.StatusActive
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	return s.patch(ctx, ownerID, id, goalToRow(g))
}

func (s *Goals) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.Delete(ctx, store.Goals, ownerID, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	s.events.deleted(ctx, store.Goals, id, ownerID)
	return nil
}

// SetStatus patches only the status.
func (s *Goals) SetStatus(ctx context.Context, ownerID, id string, status core.GoalStatus) (core.Goal, error) {
	if !status.Valid() {
		return core.Goal{}, core.ErrInvalidStatus
	}
	return s.patch(ctx, ownerID, id, store.Row{"status": string(status)})
}

// UpdateProgress patches only the current amount.
func (s *Goals) UpdateProgress(ctx context.Context, ownerID, id string, current core.Money) (core.Goal, error) {
	if current.Cents < 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}
	return s.patch(ctx, ownerID, id, store.Row{"current_amount_cents": current.Cents})
}

func (s *Goals) patch(ctx context.Context, ownerID, id string, patch store.Row) (core.Goal, error) {
	row, err := s.store.Update(ctx, store.Goals, ownerID, id, patch)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal %s: %w", id, err)
	}
	out := goalFromRow(row)
	s.events.saved(ctx, store.Goals, out.ID, ownerID)
	return out, nil
}
