package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kasereka12/BudgetTracer/internal/services"
)

// Loader fetches the dashboard slices of one owner concurrently. Every Load
// reads the store again.
type Loader struct {
	services *services.Registry
	now      func() time.Time
}

func NewLoader(reg *services.Registry) *Loader {
	return &Loader{services: reg, now: time.Now}
}

// Load fetches every slice and computes the stats. Any failed fetch fails
// the whole load.
func (l *Loader) Load(ctx context.Context, ownerID string) (Stats, error) {
	in := Inputs{Today: today(l.now())}
	from, to := ExpenseWindow(in.Today)
	first, last := MonthRange(in.Today)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Expenses, err = l.services.Expenses.Between(ctx, ownerID, from, to)
		return wrap("expenses", err)
	})
	g.Go(func() error {
		var err error
		in.Incomes, err = l.services.Incomes.Between(ctx, ownerID, first, last)
		return wrap("income", err)
	})
	g.Go(func() error {
		var err error
		in.MonthlyBudget, err = l.services.Budgets.ActiveMonthly(ctx, ownerID)
		return wrap("budget", err)
	})
	g.Go(func() error {
		var err error
		in.Goals, err = l.services.Goals.List(ctx, ownerID)
		return wrap("goals", err)
	})
	g.Go(func() error {
		var err error
		in.Recent, err = l.services.Expenses.Recent(ctx, ownerID, RecentCount)
		return wrap("recent expenses", err)
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return Compute(in), nil
}

func wrap(slice string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load dashboard %s: %w", slice, err)
}
