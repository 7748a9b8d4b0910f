package forms

import "github.com/kasereka12/BudgetTracer/internal/core"

type GoalDraft struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount"`
	TargetDate    string `json:"target_date"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
}

func GoalDraftFrom(v Values) GoalDraft {
	return GoalDraft{
		Title:         field(v, "title"),
		Description:   field(v, "description"),
		TargetAmount:  field(v, "target_amount"),
		CurrentAmount: field(v, "current_amount"),
		TargetDate:    field(v, "target_date"),
		Category:      field(v, "category"),
		Priority:      field(v, "priority"),
		Status:        field(v, "status"),
	}
}

// GoalMapper treats a blank target amount or target date as unset and a
// blank current amount as zero.
type GoalMapper struct{}

func (GoalMapper) Blank() GoalDraft {
	return GoalDraft{
		CurrentAmount: "0.00",
		Category:      string(core.GoalSavings),
		Priority:      string(core.PriorityMedium),
		Status:        string(core.StatusActive),
	}
}

func (GoalMapper) FromRecord(g core.Goal) GoalDraft {
	return GoalDraft{
		Title:         g.Title,
		Description:   g.Description,
		TargetAmount:  formatOptionalAmount(g.TargetAmount),
		CurrentAmount: g.CurrentAmount.Decimal(),
		TargetDate:    g.TargetDate.String(),
		Category:      string(g.Category),
		Priority:      string(g.Priority),
		Status:        string(g.Status),
	}
}

func (GoalMapper) ToRecord(d GoalDraft) (core.Goal, error) {
	target, err := parseOptionalAmount("target amount", d.TargetAmount)
	if err != nil {
		return core.Goal{}, err
	}
	current, err := parseOptionalAmount("current amount", d.CurrentAmount)
	if err != nil {
		return core.Goal{}, err
	}
	targetDate, err := parseOptionalDate("target date", d.TargetDate)
	if err != nil {
		return core.Goal{}, err
	}

	g := core.Goal{
		Title:        d.Title,
		Description:  d.Description,
		TargetAmount: target,
		TargetDate:   targetDate,
		Category:     core.GoalCategory(orDefault(d.Category, string(core.GoalSavings))),
		Priority:     core.Priority(orDefault(d.Priority, string(core.PriorityMedium))),
		Status:       core.GoalStatus(orDefault(d.Status, string(core.StatusActive))),
	}
	if current != nil {
		g.CurrentAmount = *current
	}
	return g, g.Validate()
}

func (GoalMapper) ID(g core.Goal) string { return g.ID }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
