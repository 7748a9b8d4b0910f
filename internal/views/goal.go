package views

import (
	"context"
	"fmt"

	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/services"
)

// GoalPage lists goals newest first.
type GoalPage struct {
	*controller.Page[core.Goal, forms.GoalDraft]
	goals *services.Goals
}

func NewGoalPage(d Deps) *GoalPage {
	return &GoalPage{
		Page:  controller.NewPage[core.Goal, forms.GoalDraft]("goal", d.Services.Goals, forms.GoalMapper{}, d.Session, d.Feedback),
		goals: d.Services.Goals,
	}
}

// SetStatus moves goal id to status.
func (p *GoalPage) SetStatus(ctx context.Context, id string, status core.GoalStatus) error {
	return p.List.Transition(ctx, fmt.Sprintf("Goal marked as %s", status), func(ctx context.Context, ownerID string) error {
		_, err := p.goals.SetStatus(ctx, ownerID, id, status)
		return err
	})
}

// UpdateProgress records the amount saved so far toward goal id.
func (p *GoalPage) UpdateProgress(ctx context.Context, id string, current core.Money) error {
	return p.List.Transition(ctx, "Goal progress updated", func(ctx context.Context, ownerID string) error {
		_, err := p.goals.UpdateProgress(ctx, ownerID, id, current)
		return err
	})
}

// Counts returns how many listed goals are active and completed.
func (p *GoalPage) Counts() (active, completed int) {
	for _, g := range p.List.Items {
		switch g.Status {
		case core.StatusActive:
			active++
		case core.StatusCompleted:
			completed++
		}
	}
	return active, completed
}
