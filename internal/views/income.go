package views

import (
	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
)

type IncomePage struct {
	*controller.Page[core.Income, forms.IncomeDraft]
}

func NewIncomePage(d Deps) *IncomePage {
	return &IncomePage{
		Page: controller.NewPage[core.Income, forms.IncomeDraft]("income", d.Services.Incomes, forms.IncomeMapper{Today: d.today()}, d.Session, d.Feedback),
	}
}

func (p *IncomePage) Total() core.Money {
	return core.SumIncome(p.List.Visible)
}
