package sheets

import (
	"context"

	"github.com/kasereka12/BudgetTracer/internal/core"
)

// ExpenseExporter mirrors expenses into an external ledger keyed by
// expense id.
type ExpenseExporter interface {
	// Upsert writes e, replacing any row already holding its id, and
	// returns a reference to the written row.
	Upsert(ctx context.Context, e core.Expense) (string, error)
	// Delete removes the row holding id. A missing row is not an error.
	Delete(ctx context.Context, id string) error
}
