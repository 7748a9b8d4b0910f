package http

import (
	"net/http"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/views"
)

type budgetsView struct {
	Items []budgetJSON `json:"items"`
}

func budgetResource(p *views.BudgetPage) resource[core.Budget, forms.BudgetDraft] {
	return resource[core.Budget, forms.BudgetDraft]{
		collection: "budgets",
		page:       p.Page,
		draftFrom:  forms.BudgetDraftFrom,
		checkboxes: []string{"is_active"},
		render: func() any {
			return budgetsView{Items: mapSlice(p.List.Visible, toBudgetJSON)}
		},
	}
}

func (s *Server) budgets(_ *http.Request, d views.Deps) (resource[core.Budget, forms.BudgetDraft], error) {
	return budgetResource(views.NewBudgetPage(d)), nil
}

func (s *Server) handleToggleBudget(w http.ResponseWriter, r *http.Request) {
	deps, fb := s.deps(r)
	p := views.NewBudgetPage(deps)
	res := budgetResource(p)

	b, err := find(r.Context(), res, r.PathValue("id"))
	if err == nil {
		err = p.ToggleActive(r.Context(), b)
	}
	if err != nil {
		s.fail(w, r, fb, err)
		return
	}
	s.writeView(w, r, fb, http.StatusOK, res)
}
