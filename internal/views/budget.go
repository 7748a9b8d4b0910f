package views

import (
	"context"

	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/services"
)

// BudgetPage lists budgets newest first.
type BudgetPage struct {
	*controller.Page[core.Budget, forms.BudgetDraft]
	budgets *services.Budgets
}

func NewBudgetPage(d Deps) *BudgetPage {
	return &BudgetPage{
		Page:    controller.NewPage[core.Budget, forms.BudgetDraft]("budget", d.Services.Budgets, forms.BudgetMapper{Today: d.today()}, d.Session, d.Feedback),
		budgets: d.Services.Budgets,
	}
}

// ToggleActive flips only the is_active flag of b.
func (p *BudgetPage) ToggleActive(ctx context.Context, b core.Budget) error {
	msg := "Budget activated"
	if b.IsActive {
		msg = "Budget deactivated"
	}
	return p.List.Transition(ctx, msg, func(ctx context.Context, ownerID string) error {
		_, err := p.budgets.SetActive(ctx, ownerID, b.ID, !b.IsActive)
		return err
	})
}
