package core

import "strings"

// Days added to a budget's start date when no end date is given.
const (
	monthlyBudgetDays = 30
	yearlyBudgetDays  = 365
)

// DefaultEndDate returns the end date a budget gets when none is provided.
func DefaultEndDate(start Date, p Period) Date {
	if p == Yearly {
		return start.AddDays(yearlyBudgetDays)
	}
	return start.AddDays(monthlyBudgetDays)
}

// ApplyDefaults fills the start date with today and the end date from the
// period when they are unset.
func (b *Budget) ApplyDefaults(today Date) {
	if b.StartDate.IsZero() {
		b.StartDate = today
	}
	if b.EndDate.IsZero() {
		b.EndDate = DefaultEndDate(b.StartDate, b.Period)
	}
}

// Progress returns current/target as a percentage clamped to [0, 100].
// ok is false when the goal has no positive target.
func (g Goal) Progress() (pct float64, ok bool) {
	if g.TargetAmount == nil || g.TargetAmount.Cents <= 0 {
		return 0, false
	}
	pct = float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct, true
}

// NutrientTotals is the per-day sum of every recorded meal field.
type NutrientTotals struct {
	Calories int64
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
	Sugar    float64
	Sodium   float64
	Cost     Money
}

// DailyTotals sums the nutrients and cost of meals; missing values count as zero.
// Callers pass meals already restricted to one date.
func DailyTotals(meals []Meal) NutrientTotals {
	var t NutrientTotals
	for _, m := range meals {
		n := m.Nutrients
		if n.Calories != nil {
			t.Calories += *n.Calories
		}
		t.Protein += deref(n.Protein)
		t.Carbs += deref(n.Carbs)
		t.Fat += deref(n.Fat)
		t.Fiber += deref(n.Fiber)
		t.Sugar += deref(n.Sugar)
		t.Sodium += deref(n.Sodium)
		if m.Cost != nil {
			t.Cost.Cents += m.Cost.Cents
		}
	}
	return t
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// ExpenseFilter is the conjunctive filter of the expenses view.
// Empty fields do not constrain.
type ExpenseFilter struct {
	Search     string
	CategoryID string
	Date       Date
}

// Match reports whether e passes every set criterion.
func (f ExpenseFilter) Match(e Expense) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(e.Description), q) &&
			!strings.Contains(strings.ToLower(e.Location), q) {
			return false
		}
	}
	if f.CategoryID != "" && e.CategoryID != f.CategoryID {
		return false
	}
	if !f.Date.IsZero() && !e.Date.SameDay(f.Date) {
		return false
	}
	return true
}

// SumExpenses totals the amounts of expenses.
func SumExpenses(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total.Cents += e.Amount.Cents
	}
	return total
}

// SumIncome totals the amounts of incomes.
func SumIncome(incomes []Income) Money {
	var total Money
	for _, i := range incomes {
		total.Cents += i.Amount.Cents
	}
	return total
}
