package views

import (
	"context"
	"log/slog"

	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/services"
)

// ExpensePage lists expenses by date, most recent first, with search,
// category and date filters over the fetched set.
type ExpensePage struct {
	*controller.Page[core.Expense, forms.ExpenseDraft]
	Categories []core.ExpenseCategory
	Filter     core.ExpenseFilter

	categories *services.Categories
	feedback   controller.Feedback
}

func NewExpensePage(d Deps) *ExpensePage {
	return &ExpensePage{
		Page:       controller.NewPage[core.Expense, forms.ExpenseDraft]("expense", d.Services.Expenses, forms.ExpenseMapper{Today: d.today()}, d.Session, d.Feedback),
		categories: d.Services.Categories,
		feedback:   d.Feedback,
	}
}

// LoadCategories fetches the shared category taxonomy for the selector.
func (p *ExpensePage) LoadCategories(ctx context.Context) error {
	cats, err := p.categories.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load expense categories", "error", err)
		p.feedback.Notify(ctx, controller.KindError, "Could not load categories")
		return err
	}
	p.Categories = cats
	return nil
}

// ApplyFilter narrows the visible expenses to those matching f.
func (p *ExpensePage) ApplyFilter(f core.ExpenseFilter) []core.Expense {
	p.Filter = f
	return p.List.ApplyFilters(f.Match)
}

// Total sums the visible expenses.
func (p *ExpensePage) Total() core.Money {
	return core.SumExpenses(p.List.Visible)
}
