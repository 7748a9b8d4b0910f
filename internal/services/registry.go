package services

import (
	"time"

	"github.com/kasereka12/BudgetTracer/internal/store"
)

// Registry bundles the repositories of every collection over one store.
type Registry struct {
	Budgets    *Budgets
	Expenses   *Expenses
	Categories *Categories
	Incomes    *Incomes
	Goals      *Goals
	Meals      *Meals
	Profiles   *Profiles
}

// New wires every repository to c. publisher may be nil.
func New(c store.Client, publisher Publisher) *Registry {
	ev := events{publisher: publisher}
	cats := &Categories{store: c}
	return &Registry{
		Budgets:    &Budgets{store: c, events: ev},
		Expenses:   &Expenses{store: c, categories: cats, events: ev},
		Categories: cats,
		Incomes:    &Incomes{store: c, events: ev},
		Goals:      &Goals{store: c, events: ev},
		Meals:      &Meals{store: c, events: ev},
		Profiles:   &Profiles{store: c, events: ev, now: time.Now},
	}
}
