// Package services maps store rows onto domain records, one repository per
// collection, and announces every write as a record-change event.
package services

import (
	"context"
	"log/slog"

	"github.com/kasereka12/BudgetTracer/internal/amqp"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

// Publisher announces record writes to other processes.
type Publisher interface {
	PublishRecordChange(ctx context.Context, msg *amqp.RecordChangeMessage) error
}

// events publishes after a write has been stored. Failures are logged and
// never fail the write.
type events struct {
	publisher Publisher
}

func (e events) saved(ctx context.Context, c store.Collection, id, ownerID string) {
	e.publish(ctx, amqp.NewRecordChangeMessage(string(c), id, ownerID, amqp.ActionSaved))
}

func (e events) deleted(ctx context.Context, c store.Collection, id, ownerID string) {
	e.publish(ctx, amqp.NewRecordChangeMessage(string(c), id, ownerID, amqp.ActionDeleted))
}

func (e events) publish(ctx context.Context, msg *amqp.RecordChangeMessage) {
	if e.publisher == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping record change",
			"collection", msg.Collection, "id", msg.ID)
		return
	}
	if err := e.publisher.PublishRecordChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record change",
			"collection", msg.Collection, "id", msg.ID, "error", err)
	}
}
