package forms

import "github.com/kasereka12/BudgetTracer/internal/core"

type BudgetDraft struct {
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Period    string `json:"period"`
	Category  string `json:"category"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}

func BudgetDraftFrom(v Values) BudgetDraft {
	return BudgetDraft{
		Name:      field(v, "name"),
		Amount:    field(v, "amount"),
		Period:    field(v, "period"),
		Category:  field(v, "category"),
		StartDate: field(v, "start_date"),
		EndDate:   field(v, "end_date"),
		IsActive:  parseFlag(v.Get("is_active"), true),
	}
}

// BudgetMapper fills a blank start date with Today and a blank end date
// from the period.
type BudgetMapper struct {
	Today Clock
}

func (m BudgetMapper) Blank() BudgetDraft {
	return BudgetDraft{Period: string(core.Monthly), IsActive: true}
}

func (m BudgetMapper) FromRecord(b core.Budget) BudgetDraft {
	return BudgetDraft{
		Name:      b.Name,
		Amount:    b.Amount.Decimal(),
		Period:    string(b.Period),
		Category:  b.Category,
		StartDate: b.StartDate.String(),
		EndDate:   b.EndDate.String(),
		IsActive:  b.IsActive,
	}
}

func (m BudgetMapper) ToRecord(d BudgetDraft) (core.Budget, error) {
	amount, err := parseAmount("amount", d.Amount)
	if err != nil {
		return core.Budget{}, err
	}
	start, err := parseOptionalDate("start date", d.StartDate)
	if err != nil {
		return core.Budget{}, err
	}
	end, err := parseOptionalDate("end date", d.EndDate)
	if err != nil {
		return core.Budget{}, err
	}

	period := core.Period(d.Period)
	if period == "" {
		period = core.Monthly
	}
	b := core.Budget{
		Name:      d.Name,
		Amount:    amount,
		Period:    period,
		Category:  d.Category,
		StartDate: start,
		EndDate:   end,
		IsActive:  d.IsActive,
	}
	b.ApplyDefaults(m.Today.today())
	return b, b.Validate()
}

func (m BudgetMapper) ID(b core.Budget) string { return b.ID }
