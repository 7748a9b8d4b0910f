package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

const (
	GoalSavings          GoalCategory = "savings"
	GoalExpenseReduction GoalCategory = "expense_reduction"
	GoalIncomeIncrease   GoalCategory = "income_increase"
	GoalDebtPayment      GoalCategory = "debt_payment"
	GoalInvestment       GoalCategory = "investment"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	StatusActive    GoalStatus = "active"
	StatusCompleted GoalStatus = "completed"
	StatusPaused    GoalStatus = "paused"
	StatusCancelled GoalStatus = "cancelled"
)

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// DateLayout is the wire and storage form of a calendar day.
const DateLayout = "2006-01-02"

type (
	Period       string
	GoalCategory string
	Priority     string
	GoalStatus   string
	MealType     string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Budget struct {
		ID        string
		OwnerID   string
		Name      string
		Amount    Money
		Period    Period
		Category  string
		StartDate Date
		EndDate   Date
		IsActive  bool
		CreatedAt time.Time
	}

	ExpenseCategory struct {
		ID    string
		Name  string
		Color string
		Icon  string
	}

	Expense struct {
		ID          string
		OwnerID     string
		Amount      Money
		Description string
		CategoryID  string // empty when uncategorised
		Category    *ExpenseCategory
		Date        Date
		Location    string
		Notes       string
		CreatedAt   time.Time
	}

	Income struct {
		ID          string
		OwnerID     string
		Amount      Money
		Description string
		Category    string
		Date        Date
		CreatedAt   time.Time
	}

	Goal struct {
		ID            string
		OwnerID       string
		Title         string
		Description   string
		TargetAmount  *Money
		CurrentAmount Money
		TargetDate    Date
		Category      GoalCategory
		Priority      Priority
		Status        GoalStatus
		CreatedAt     time.Time
	}

	// Nutrients holds the optional per-meal nutrient values; nil means not recorded.
	Nutrients struct {
		Calories *int64
		Protein  *float64
		Carbs    *float64
		Fat      *float64
		Fiber    *float64
		Sugar    *float64
		Sodium   *float64
	}

	Meal struct {
		ID        string
		OwnerID   string
		Name      string
		Type      MealType
		Date      Date
		Nutrients Nutrients
		Cost      *Money
		Notes     string
		CreatedAt time.Time
	}

	Profile struct {
		ID        string
		Email     string
		FullName  string
		AvatarURL string
		UpdatedAt time.Time
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyTitle       = errors.New("empty title")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidMealType  = errors.New("invalid meal type")
	ErrNegativeNutrient = errors.New("nutrient values cannot be negative")
	ErrEmptyOwner       = errors.New("empty owner")
	ErrEmptyEmail       = errors.New("empty email")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD, or "" for an empty date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// SameDay reports whether both dates name the same calendar day.
func (d Date) SameDay(o Date) bool {
	return d.String() == o.String()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (p Period) Valid() bool {
	return p == Monthly || p == Yearly
}

func (c GoalCategory) Valid() bool {
	switch c {
	case GoalSavings, GoalExpenseReduction, GoalIncomeIncrease, GoalDebtPayment, GoalInvestment:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func (s GoalStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused, StatusCancelled:
		return true
	}
	return false
}

func (t MealType) Valid() bool {
	switch t {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if err := b.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate.Time) {
		return errors.New("end date must not be before start date")
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (i Income) Validate() error {
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(i.Description)) == 0 {
		return ErrEmptyDescription
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if g.TargetAmount != nil && g.TargetAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !g.Category.Valid() {
		return ErrInvalidCategory
	}
	if !g.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !g.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (n Nutrients) Validate() error {
	if n.Calories != nil && *n.Calories < 0 {
		return ErrNegativeNutrient
	}
	for _, v := range []*float64{n.Protein, n.Carbs, n.Fat, n.Fiber, n.Sugar, n.Sodium} {
		if v != nil && *v < 0 {
			return ErrNegativeNutrient
		}
	}
	return nil
}

func (m Meal) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if !m.Type.Valid() {
		return ErrInvalidMealType
	}
	if err := m.Date.Validate(); err != nil {
		return err
	}
	if m.Cost != nil && m.Cost.Cents < 0 {
		return ErrInvalidAmount
	}
	return m.Nutrients.Validate()
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}
