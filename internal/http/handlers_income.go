package http

import (
	"net/http"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/views"
)

type incomesView struct {
	Items []incomeJSON `json:"items"`
	Total string       `json:"total"`
}

func (s *Server) incomes(_ *http.Request, d views.Deps) (resource[core.Income, forms.IncomeDraft], error) {
	p := views.NewIncomePage(d)
	return resource[core.Income, forms.IncomeDraft]{
		collection: "income",
		page:       p.Page,
		draftFrom:  forms.IncomeDraftFrom,
		render: func() any {
			return incomesView{Items: mapSlice(p.List.Visible, toIncomeJSON), Total: p.Total().Decimal()}
		},
	}, nil
}
