package views

import (
	"context"

	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/services"
)

// NutritionPage lists the meals of one selected day in the order they were
// logged. New meals default to the selected day.
type NutritionPage struct {
	*controller.Page[core.Meal, forms.MealDraft]
	Date core.Date
}

// mealsOnDate lists only the meals of the page's selected date.
type mealsOnDate struct {
	*services.Meals
	page *NutritionPage
}

func (r mealsOnDate) List(ctx context.Context, ownerID string) ([]core.Meal, error) {
	return r.On(ctx, ownerID, r.page.Date)
}

func NewNutritionPage(d Deps) *NutritionPage {
	p := &NutritionPage{Date: d.today()()}
	mapper := forms.MealMapper{Today: func() core.Date { return p.Date }}
	p.Page = controller.NewPage[core.Meal, forms.MealDraft]("meal", mealsOnDate{Meals: d.Services.Meals, page: p}, mapper, d.Session, d.Feedback)
	return p
}

// SelectDate switches the page to day and refetches its meals. A closed
// form is reset so its blank draft carries the new day.
func (p *NutritionPage) SelectDate(ctx context.Context, day core.Date) error {
	p.Date = day
	if !p.Form.Open {
		p.Form.Cancel()
	}
	return p.List.Refresh(ctx)
}

// Totals sums the nutrients and cost of the selected day.
func (p *NutritionPage) Totals() core.NutrientTotals {
	return core.DailyTotals(p.List.Items)
}
