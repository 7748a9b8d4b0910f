package http

import (
	"net/http"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/views"
)

type expensesView struct {
	Items      []expenseJSON  `json:"items"`
	Total      string         `json:"total"`
	Count      int            `json:"count"`
	Categories []categoryJSON `json:"categories,omitempty"`
}

// expenses builds the expense page with the q, category and date filters
// of the request. Listing also loads the category selector.
func (s *Server) expenses(r *http.Request, d views.Deps) (resource[core.Expense, forms.ExpenseDraft], error) {
	filter, err := ParseExpenseFilter(r.URL.Query())
	if err != nil {
		return resource[core.Expense, forms.ExpenseDraft]{}, badRequest("%v", err)
	}

	p := views.NewExpensePage(d)
	p.ApplyFilter(filter)
	if r.Method == http.MethodGet {
		// A failed load is already notified; the list is still served.
		_ = p.LoadCategories(r.Context())
	}

	return resource[core.Expense, forms.ExpenseDraft]{
		collection: "expenses",
		page:       p.Page,
		draftFrom:  forms.ExpenseDraftFrom,
		render: func() any {
			return expensesView{
				Items:      mapSlice(p.List.Visible, toExpenseJSON),
				Total:      p.Total().Decimal(),
				Count:      len(p.List.Visible),
				Categories: mapSlice(p.Categories, toCategoryJSON),
			}
		},
	}, nil
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	deps, fb := s.deps(r)
	p := views.NewExpensePage(deps)
	if err := p.LoadCategories(r.Context()); err != nil {
		s.fail(w, r, fb, err)
		return
	}
	NewHTMXResponse().JSON(mapSlice(p.Categories, toCategoryJSON)).Write(w)
}
