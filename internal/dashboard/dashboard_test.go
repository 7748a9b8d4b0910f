package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/services"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

func expense(cents int64, y, m, d int) core.Expense {
	return core.Expense{Amount: core.Money{Cents: cents}, Description: "x", Date: core.NewDate(y, m, d)}
}

func TestCompute_EmptyInputs(t *testing.T) {
	s := Compute(Inputs{Today: core.NewDate(2024, 3, 15)})
	assert.Zero(t, s.TotalExpenses.Cents)
	assert.Zero(t, s.BudgetUsedPct)
	assert.False(t, s.BudgetWarning)
	assert.False(t, s.HasBudget)
	require.Len(t, s.Daily, DailyWindow)
	for _, d := range s.Daily {
		assert.Zero(t, d.Amount.Cents)
	}
	assert.Equal(t, "2024-03-09", s.Daily[0].Date.String())
	assert.Equal(t, "2024-03-15", s.Daily[6].Date.String())
}

func TestCompute_BudgetWarningIsStrict(t *testing.T) {
	today := core.NewDate(2024, 3, 15)
	budget := &core.Budget{Amount: core.Money{Cents: 100000}}

	tests := []struct {
		name    string
		spent   int64
		pct     float64
		warning bool
	}{
		{"below", 50000, 50, false},
		{"exactly eighty", 80000, 80, false},
		{"just above", 80001, 80.001, true},
		{"over budget", 120000, 120, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(Inputs{
				Today:         today,
				Expenses:      []core.Expense{expense(tt.spent, 2024, 3, 10)},
				MonthlyBudget: budget,
			})
			assert.InDelta(t, tt.pct, s.BudgetUsedPct, 0.0001)
			assert.Equal(t, tt.warning, s.BudgetWarning)
		})
	}
}

func TestCompute_ZeroBudgetHasNoPercentage(t *testing.T) {
	s := Compute(Inputs{
		Today:         core.NewDate(2024, 3, 15),
		Expenses:      []core.Expense{expense(5000, 2024, 3, 1)},
		MonthlyBudget: &core.Budget{},
	})
	assert.Zero(t, s.BudgetUsedPct)
	assert.False(t, s.BudgetWarning)
}

func TestCompute_DailySeriesCrossesMonth(t *testing.T) {
	today := core.NewDate(2024, 3, 2)
	s := Compute(Inputs{
		Today: today,
		Expenses: []core.Expense{
			expense(1000, 2024, 2, 25),
			expense(200, 2024, 2, 27),
			expense(300, 2024, 2, 27),
			expense(400, 2024, 3, 2),
			expense(999, 2024, 2, 20),
		},
	})
	var got []int64
	for _, d := range s.Daily {
		got = append(got, d.Amount.Cents)
	}
	assert.Equal(t, []int64{1000, 0, 500, 0, 0, 0, 400}, got)
	assert.Equal(t, "2024-02-25", s.Daily[0].Date.String())
	assert.Equal(t, int64(400), s.TotalExpenses.Cents, "only the current month is totalled")
}

func TestCompute_GoalsIncomeAndCategories(t *testing.T) {
	food := &core.ExpenseCategory{ID: "food", Name: "Food", Color: "#ef4444"}
	today := core.NewDate(2024, 3, 15)
	e1 := expense(3000, 2024, 3, 1)
	e1.Category = food
	e2 := expense(2000, 2024, 3, 2)
	e2.Category = food
	e3 := expense(4000, 2024, 3, 3)

	s := Compute(Inputs{
		Today:    today,
		Expenses: []core.Expense{e1, e2, e3},
		Incomes: []core.Income{
			{Amount: core.Money{Cents: 250000}, Date: core.NewDate(2024, 3, 1)},
			{Amount: core.Money{Cents: 99}, Date: core.NewDate(2024, 2, 28)},
		},
		Goals: []core.Goal{
			{Status: core.StatusActive}, {Status: core.StatusActive},
			{Status: core.StatusCompleted}, {Status: core.StatusPaused},
		},
		Recent: []core.Expense{e3, e2, e1, e3, e2, e1},
	})
	assert.Equal(t, int64(250000), s.TotalIncome.Cents)
	assert.Equal(t, int64(241000), s.Balance.Cents)
	assert.Equal(t, 2, s.ActiveGoals)
	assert.Equal(t, 1, s.CompletedGoals)
	assert.Len(t, s.Recent, RecentCount)
	require.Len(t, s.ByCategory, 2)
	assert.Equal(t, "Food", s.ByCategory[0].Name)
	assert.Equal(t, int64(5000), s.ByCategory[0].Amount.Cents)
	assert.Equal(t, Uncategorised, s.ByCategory[1].Name)
}

func TestExpenseWindow(t *testing.T) {
	from, to := ExpenseWindow(core.NewDate(2024, 3, 2))
	assert.Equal(t, "2024-02-25", from.String())
	assert.Equal(t, "2024-03-31", to.String())

	from, to = ExpenseWindow(core.NewDate(2024, 2, 20))
	assert.Equal(t, "2024-02-01", from.String())
	assert.Equal(t, "2024-02-29", to.String())
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	reg := services.New(store.NewMemory(), nil)
	l := NewLoader(reg)
	l.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	_, err := reg.Budgets.Create(ctx, "u1", core.Budget{
		Name: "Monthly", Amount: core.Money{Cents: 10000}, Period: core.Monthly,
		StartDate: core.NewDate(2024, 3, 1), IsActive: true,
	})
	require.NoError(t, err)
	_, err = reg.Budgets.Create(ctx, "u1", core.Budget{
		Name: "Yearly", Amount: core.Money{Cents: 999999}, Period: core.Yearly,
		StartDate: core.NewDate(2024, 1, 1), IsActive: true,
	})
	require.NoError(t, err)
	for _, e := range []core.Expense{expense(4500, 2024, 3, 14), expense(4000, 2024, 3, 15), expense(700, 2024, 2, 10)} {
		_, err := reg.Expenses.Create(ctx, "u1", e)
		require.NoError(t, err)
	}
	_, err = reg.Expenses.Create(ctx, "u2", expense(100000, 2024, 3, 15))
	require.NoError(t, err)

	s, err := l.Load(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, s.HasBudget)
	assert.Equal(t, int64(10000), s.MonthlyBudget.Cents)
	assert.Equal(t, int64(8500), s.TotalExpenses.Cents)
	assert.InDelta(t, 85.0, s.BudgetUsedPct, 0.0001)
	assert.True(t, s.BudgetWarning)
	assert.Equal(t, int64(4000), s.Daily[6].Amount.Cents)
	assert.Equal(t, int64(4500), s.Daily[5].Amount.Cents)
	assert.Len(t, s.Recent, 3)
	assert.Equal(t, "2024-03", s.Month)
}
