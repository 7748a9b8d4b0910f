package forms

import "github.com/kasereka12/BudgetTracer/internal/core"

type IncomeDraft struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

func IncomeDraftFrom(v Values) IncomeDraft {
	return IncomeDraft{
		Amount:      field(v, "amount"),
		Description: field(v, "description"),
		Category:    field(v, "category"),
		Date:        field(v, "date"),
	}
}

type IncomeMapper struct {
	Today Clock
}

func (m IncomeMapper) Blank() IncomeDraft {
	return IncomeDraft{Date: m.Today.today().String()}
}

func (m IncomeMapper) FromRecord(i core.Income) IncomeDraft {
	return IncomeDraft{
		Amount:      i.Amount.Decimal(),
		Description: i.Description,
		Category:    i.Category,
		Date:        i.Date.String(),
	}
}

func (m IncomeMapper) ToRecord(d IncomeDraft) (core.Income, error) {
	amount, err := parseAmount("amount", d.Amount)
	if err != nil {
		return core.Income{}, err
	}
	date, err := parseDate("date", d.Date)
	if err != nil {
		return core.Income{}, err
	}
	in := core.Income{
		Amount:      amount,
		Description: d.Description,
		Category:    d.Category,
		Date:        date,
	}
	return in, in.Validate()
}

func (m IncomeMapper) ID(i core.Income) string { return i.ID }
