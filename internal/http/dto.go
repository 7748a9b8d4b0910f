package http

import (
	"time"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/dashboard"
)

// Amounts are exchanged as decimal strings ("12.34") to keep cents exact.

type budgetJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	Period    string    `json:"period"`
	Category  string    `json:"category"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:        b.ID,
		Name:      b.Name,
		Amount:    b.Amount.Decimal(),
		Period:    string(b.Period),
		Category:  b.Category,
		StartDate: b.StartDate.String(),
		EndDate:   b.EndDate.String(),
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
	}
}

type categoryJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func toCategoryJSON(c core.ExpenseCategory) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name, Color: c.Color, Icon: c.Icon}
}

type expenseJSON struct {
	ID          string        `json:"id"`
	Amount      string        `json:"amount"`
	Description string        `json:"description"`
	CategoryID  string        `json:"category_id,omitempty"`
	Category    *categoryJSON `json:"category,omitempty"`
	Date        string        `json:"date"`
	Location    string        `json:"location,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	out := expenseJSON{
		ID:          e.ID,
		Amount:      e.Amount.Decimal(),
		Description: e.Description,
		CategoryID:  e.CategoryID,
		Date:        e.Date.String(),
		Location:    e.Location,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
	}
	if e.Category != nil {
		c := toCategoryJSON(*e.Category)
		out.Category = &c
	}
	return out
}

type incomeJSON struct {
	ID          string    `json:"id"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

func toIncomeJSON(i core.Income) incomeJSON {
	return incomeJSON{
		ID:          i.ID,
		Amount:      i.Amount.Decimal(),
		Description: i.Description,
		Category:    i.Category,
		Date:        i.Date.String(),
		CreatedAt:   i.CreatedAt,
	}
}

type goalJSON struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	TargetAmount  *string   `json:"target_amount"`
	CurrentAmount string    `json:"current_amount"`
	Progress      *float64  `json:"progress"`
	TargetDate    string    `json:"target_date,omitempty"`
	Category      string    `json:"category"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func toGoalJSON(g core.Goal) goalJSON {
	out := goalJSON{
		ID:            g.ID,
		Title:         g.Title,
		Description:   g.Description,
		CurrentAmount: g.CurrentAmount.Decimal(),
		TargetDate:    g.TargetDate.String(),
		Category:      string(g.Category),
		Priority:      string(g.Priority),
		Status:        string(g.Status),
		CreatedAt:     g.CreatedAt,
	}
	if g.TargetAmount != nil {
		t := g.TargetAmount.Decimal()
		out.TargetAmount = &t
	}
	if pct, ok := g.Progress(); ok {
		out.Progress = &pct
	}
	return out
}

type mealJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"meal_type"`
	Date      string    `json:"date"`
	Calories  *int64    `json:"calories"`
	Protein   *float64  `json:"protein"`
	Carbs     *float64  `json:"carbs"`
	Fat       *float64  `json:"fat"`
	Fiber     *float64  `json:"fiber"`
	Sugar     *float64  `json:"sugar"`
	Sodium    *float64  `json:"sodium"`
	Cost      *string   `json:"cost"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toMealJSON(m core.Meal) mealJSON {
	n := m.Nutrients
	out := mealJSON{
		ID:        m.ID,
		Name:      m.Name,
		Type:      string(m.Type),
		Date:      m.Date.String(),
		Calories:  n.Calories,
		Protein:   n.Protein,
		Carbs:     n.Carbs,
		Fat:       n.Fat,
		Fiber:     n.Fiber,
		Sugar:     n.Sugar,
		Sodium:    n.Sodium,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
	if m.Cost != nil {
		c := m.Cost.Decimal()
		out.Cost = &c
	}
	return out
}

type totalsJSON struct {
	Calories int64   `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	Cost     string  `json:"cost"`
}

func toTotalsJSON(t core.NutrientTotals) totalsJSON {
	return totalsJSON{
		Calories: t.Calories,
		Protein:  t.Protein,
		Carbs:    t.Carbs,
		Fat:      t.Fat,
		Fiber:    t.Fiber,
		Sugar:    t.Sugar,
		Sodium:   t.Sodium,
		Cost:     t.Cost.Decimal(),
	}
}

type profileJSON struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type dailyJSON struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type categoryAmountJSON struct {
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	Amount string `json:"amount"`
}

type dashboardJSON struct {
	Month          string               `json:"month"`
	TotalExpenses  string               `json:"total_expenses"`
	TotalIncome    string               `json:"total_income"`
	Balance        string               `json:"balance"`
	MonthlyBudget  *string              `json:"monthly_budget"`
	BudgetUsedPct  float64              `json:"budget_used_pct"`
	BudgetWarning  bool                 `json:"budget_warning"`
	Daily          []dailyJSON          `json:"daily"`
	ActiveGoals    int                  `json:"active_goals"`
	CompletedGoals int                  `json:"completed_goals"`
	Recent         []expenseJSON        `json:"recent_expenses"`
	ByCategory     []categoryAmountJSON `json:"by_category"`
}

func toDashboardJSON(s dashboard.Stats) dashboardJSON {
	out := dashboardJSON{
		Month:          s.Month,
		TotalExpenses:  s.TotalExpenses.Decimal(),
		TotalIncome:    s.TotalIncome.Decimal(),
		Balance:        s.Balance.Decimal(),
		BudgetUsedPct:  s.BudgetUsedPct,
		BudgetWarning:  s.BudgetWarning,
		ActiveGoals:    s.ActiveGoals,
		CompletedGoals: s.CompletedGoals,
		Daily:          make([]dailyJSON, len(s.Daily)),
		Recent:         mapSlice(s.Recent, toExpenseJSON),
		ByCategory:     make([]categoryAmountJSON, len(s.ByCategory)),
	}
	if s.HasBudget {
		b := s.MonthlyBudget.Decimal()
		out.MonthlyBudget = &b
	}
	for i, d := range s.Daily {
		out.Daily[i] = dailyJSON{Date: d.Date.String(), Amount: d.Amount.Decimal()}
	}
	for i, c := range s.ByCategory {
		out.ByCategory[i] = categoryAmountJSON{Name: c.Name, Color: c.Color, Amount: c.Amount.Decimal()}
	}
	return out
}

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
