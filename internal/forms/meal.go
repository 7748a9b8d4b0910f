package forms

import "github.com/kasereka12/BudgetTracer/internal/core"

type MealDraft struct {
	Name     string `json:"name"`
	Type     string `json:"meal_type"`
	Date     string `json:"date"`
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
	Fiber    string `json:"fiber"`
	Sugar    string `json:"sugar"`
	Sodium   string `json:"sodium"`
	Cost     string `json:"cost"`
	Notes    string `json:"notes"`
}

func MealDraftFrom(v Values) MealDraft {
	return MealDraft{
		Name:     field(v, "name"),
		Type:     field(v, "meal_type"),
		Date:     field(v, "date"),
		Calories: field(v, "calories"),
		Protein:  field(v, "protein"),
		Carbs:    field(v, "carbs"),
		Fat:      field(v, "fat"),
		Fiber:    field(v, "fiber"),
		Sugar:    field(v, "sugar"),
		Sodium:   field(v, "sodium"),
		Cost:     field(v, "cost"),
		Notes:    field(v, "notes"),
	}
}

// MealMapper leaves every blank nutrient and the cost unrecorded. A blank
// draft is dated Today.
type MealMapper struct {
	Today Clock
}

func (m MealMapper) Blank() MealDraft {
	return MealDraft{Type: string(core.Breakfast), Date: m.Today.today().String()}
}

func (m MealMapper) FromRecord(meal core.Meal) MealDraft {
	n := meal.Nutrients
	return MealDraft{
		Name:     meal.Name,
		Type:     string(meal.Type),
		Date:     meal.Date.String(),
		Calories: formatOptionalInt(n.Calories),
		Protein:  formatOptionalFloat(n.Protein),
		Carbs:    formatOptionalFloat(n.Carbs),
		Fat:      formatOptionalFloat(n.Fat),
		Fiber:    formatOptionalFloat(n.Fiber),
		Sugar:    formatOptionalFloat(n.Sugar),
		Sodium:   formatOptionalFloat(n.Sodium),
		Cost:     formatOptionalAmount(meal.Cost),
		Notes:    meal.Notes,
	}
}

func (m MealMapper) ToRecord(d MealDraft) (core.Meal, error) {
	date, err := parseDate("date", d.Date)
	if err != nil {
		return core.Meal{}, err
	}
	calories, err := parseOptionalInt("calories", d.Calories)
	if err != nil {
		return core.Meal{}, err
	}
	cost, err := parseOptionalAmount("cost", d.Cost)
	if err != nil {
		return core.Meal{}, err
	}

	n := core.Nutrients{Calories: calories}
	for _, f := range []struct {
		name string
		text string
		dst  **float64
	}{
		{"protein", d.Protein, &n.Protein},
		{"carbs", d.Carbs, &n.Carbs},
		{"fat", d.Fat, &n.Fat},
		{"fiber", d.Fiber, &n.Fiber},
		{"sugar", d.Sugar, &n.Sugar},
		{"sodium", d.Sodium, &n.Sodium},
	} {
		v, err := parseOptionalFloat(f.name, f.text)
		if err != nil {
			return core.Meal{}, err
		}
		*f.dst = v
	}

	meal := core.Meal{
		Name:      d.Name,
		Type:      core.MealType(d.Type),
		Date:      date,
		Nutrients: n,
		Cost:      cost,
		Notes:     d.Notes,
	}
	return meal, meal.Validate()
}

func (m MealMapper) ID(meal core.Meal) string { return meal.ID }
