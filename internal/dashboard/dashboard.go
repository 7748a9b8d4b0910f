// Package dashboard derives the overview statistics from the independent
// budget, expense, income and goal slices of one user.
package dashboard

import (
	"time"

	"github.com/kasereka12/BudgetTracer/internal/core"
)

const (
	// WarningThreshold is the budget usage percentage above which the
	// dashboard warns. Exactly the threshold does not warn.
	WarningThreshold = 80.0
	// DailyWindow is the number of days in the spending series, ending today.
	DailyWindow = 7
	// RecentCount is the number of latest expenses shown.
	RecentCount = 5
	// Uncategorised labels expenses without a category.
	Uncategorised = "Uncategorised"
)

// Inputs are the fetched slices Compute works from. Expenses must cover
// the current month and the daily window.
type Inputs struct {
	Today         core.Date
	Expenses      []core.Expense
	Incomes       []core.Income
	MonthlyBudget *core.Budget
	Goals         []core.Goal
	Recent        []core.Expense
}

// DailyAmount is the spending of one calendar day.
type DailyAmount struct {
	Date   core.Date
	Amount core.Money
}

type Stats struct {
	Month          string
	TotalExpenses  core.Money
	TotalIncome    core.Money
	Balance        core.Money
	MonthlyBudget  core.Money
	HasBudget      bool
	BudgetUsedPct  float64
	BudgetWarning  bool
	Daily          []DailyAmount
	ActiveGoals    int
	CompletedGoals int
	Recent         []core.Expense
	ByCategory     []core.CategoryAmount
}

// MonthRange returns the first and last calendar day of today's month.
func MonthRange(today core.Date) (first, last core.Date) {
	first = core.NewDate(today.Year(), int(today.Month()), 1)
	last = core.Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}

// ExpenseWindow returns the date range of expenses Compute needs: the
// current month plus the daily window, which may start in the previous month.
func ExpenseWindow(today core.Date) (from, to core.Date) {
	first, last := MonthRange(today)
	from = today.AddDays(-(DailyWindow - 1))
	if first.Before(from.Time) {
		from = first
	}
	return from, last
}

// Compute derives the dashboard from in. It performs no I/O.
func Compute(in Inputs) Stats {
	first, last := MonthRange(in.Today)
	s := Stats{Month: in.Today.Format("2006-01")}

	var month []core.Expense
	for _, e := range in.Expenses {
		if within(e.Date, first, last) {
			month = append(month, e)
		}
	}
	s.TotalExpenses = core.SumExpenses(month)
	s.ByCategory = core.ByCategory(month, Uncategorised)

	for _, i := range in.Incomes {
		if within(i.Date, first, last) {
			s.TotalIncome.Cents += i.Amount.Cents
		}
	}
	s.Balance = core.Money{Cents: s.TotalIncome.Cents - s.TotalExpenses.Cents}

	if in.MonthlyBudget != nil {
		s.HasBudget = true
		s.MonthlyBudget = in.MonthlyBudget.Amount
	}
	s.BudgetUsedPct = usedPct(s.TotalExpenses, s.MonthlyBudget)
	s.BudgetWarning = s.BudgetUsedPct > WarningThreshold

	s.Daily = daily(in.Expenses, in.Today)

	for _, g := range in.Goals {
		switch g.Status {
		case core.StatusActive:
			s.ActiveGoals++
		case core.StatusCompleted:
			s.CompletedGoals++
		}
	}

	s.Recent = in.Recent
	if len(s.Recent) > RecentCount {
		s.Recent = s.Recent[:RecentCount]
	}
	return s
}

func usedPct(spent, budget core.Money) float64 {
	if budget.Cents <= 0 {
		return 0
	}
	return float64(spent.Cents) / float64(budget.Cents) * 100
}

// daily returns one entry per day of the window, oldest first, zero when
// nothing was spent.
func daily(expenses []core.Expense, today core.Date) []DailyAmount {
	out := make([]DailyAmount, DailyWindow)
	idx := make(map[string]int, DailyWindow)
	for i := range out {
		d := today.AddDays(i - (DailyWindow - 1))
		out[i].Date = d
		idx[d.String()] = i
	}
	for _, e := range expenses {
		if i, ok := idx[e.Date.String()]; ok {
			out[i].Amount.Cents += e.Amount.Cents
		}
	}
	return out
}

func within(d, first, last core.Date) bool {
	return !d.Before(first.Time) && !d.After(last.Time)
}

// today truncates now to a calendar day in UTC.
func today(now time.Time) core.Date {
	return core.DateOf(now.UTC())
}
