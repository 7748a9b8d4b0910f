package forms

import "github.com/kasereka12/BudgetTracer/internal/core"

type ExpenseDraft struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`
}

func ExpenseDraftFrom(v Values) ExpenseDraft {
	return ExpenseDraft{
		Amount:      field(v, "amount"),
		Description: field(v, "description"),
		CategoryID:  field(v, "category_id"),
		Date:        field(v, "date"),
		Location:    field(v, "location"),
		Notes:       field(v, "notes"),
	}
}

// ExpenseMapper dates a blank draft today. An empty category id means
// uncategorised.
type ExpenseMapper struct {
	Today Clock
}

func (m ExpenseMapper) Blank() ExpenseDraft {
	return ExpenseDraft{Date: m.Today.today().String()}
}

func (m ExpenseMapper) FromRecord(e core.Expense) ExpenseDraft {
	return ExpenseDraft{
		Amount:      e.Amount.Decimal(),
		Description: e.Description,
		CategoryID:  e.CategoryID,
		Date:        e.Date.String(),
		Location:    e.Location,
		Notes:       e.Notes,
	}
}

func (m ExpenseMapper) ToRecord(d ExpenseDraft) (core.Expense, error) {
	amount, err := parseAmount("amount", d.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	date, err := parseDate("date", d.Date)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		Amount:      amount,
		Description: d.Description,
		CategoryID:  d.CategoryID,
		Date:        date,
		Location:    d.Location,
		Notes:       d.Notes,
	}
	return e, e.Validate()
}

func (m ExpenseMapper) ID(e core.Expense) string { return e.ID }
