package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kasereka12/BudgetTracer/internal/amqp"
	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/sheets"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

// ExpenseReader reads the current state of an owner's expenses.
type ExpenseReader interface {
	Get(ctx context.Context, ownerID, id string) (core.Expense, error)
	List(ctx context.Context, ownerID string) ([]core.Expense, error)
}

// ExportWorker mirrors expense changes announced on the broker into an
// external ledger.
type ExportWorker struct {
	expenses ExpenseReader
	exporter sheets.ExpenseExporter
}

func NewExportWorker(expenses ExpenseReader, exporter sheets.ExpenseExporter) *ExportWorker {
	return &ExportWorker{expenses: expenses, exporter: exporter}
}

// HandleRecordChange processes one record change message. Changes to
// collections other than expenses are acknowledged and ignored.
func (w *ExportWorker) HandleRecordChange(ctx context.Context, msg *amqp.RecordChangeMessage) error {
	if msg.Collection != string(store.Expenses) {
		return nil
	}
	slog.InfoContext(ctx, "Processing expense change", "id", msg.ID, "action", msg.Action)

	switch msg.Action {
	case amqp.ActionDeleted:
		return w.remove(ctx, msg.ID)
	case amqp.ActionSaved:
		e, err := w.expenses.Get(ctx, msg.OwnerID, msg.ID)
		if errors.Is(err, store.ErrNotFound) {
			// deleted before this message was consumed
			return w.remove(ctx, msg.ID)
		}
		if err != nil {
			return fmt.Errorf("get expense %s: %w", msg.ID, err)
		}
		ref, err := w.exporter.Upsert(ctx, e)
		if err != nil {
			return fmt.Errorf("export expense %s: %w", msg.ID, err)
		}
		slog.InfoContext(ctx, "Exported expense", "id", msg.ID, "ref", ref)
		return nil
	}
	return fmt.Errorf("unknown action %q", msg.Action)
}

func (w *ExportWorker) remove(ctx context.Context, id string) error {
	if err := w.exporter.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove exported expense %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Removed exported expense", "id", id)
	return nil
}

// Resync exports every expense of ownerID. It recovers rows missed
// while the broker was unavailable.
func (w *ExportWorker) Resync(ctx context.Context, ownerID string) (int, error) {
	expenses, err := w.expenses.List(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list expenses: %w", err)
	}
	for i, e := range expenses {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := w.exporter.Upsert(ctx, e); err != nil {
			return i, fmt.Errorf("export expense %s: %w", e.ID, err)
		}
	}
	slog.InfoContext(ctx, "Resynced expenses", "owner_id", ownerID, "count", len(expenses))
	return len(expenses), nil
}
