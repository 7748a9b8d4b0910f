package http

import (
	"net/http"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/views"
)

type mealsView struct {
	Date   string     `json:"date"`
	Items  []mealJSON `json:"items"`
	Totals totalsJSON `json:"totals"`
}

// meals builds the nutrition page for the date query parameter, today by
// default. Meals are always listed and edited within that day.
func (s *Server) meals(r *http.Request, d views.Deps) (resource[core.Meal, forms.MealDraft], error) {
	p := views.NewNutritionPage(d)
	day, err := ParseDateParam(r.URL.Query(), "date", p.Date)
	if err != nil {
		return resource[core.Meal, forms.MealDraft]{}, badRequest("%v", err)
	}
	p.Date = day

	return resource[core.Meal, forms.MealDraft]{
		collection: "meals",
		page:       p.Page,
		draftFrom:  forms.MealDraftFrom,
		render: func() any {
			return mealsView{
				Date:   p.Date.String(),
				Items:  mapSlice(p.List.Visible, toMealJSON),
				Totals: toTotalsJSON(p.Totals()),
			}
		},
	}, nil
}
