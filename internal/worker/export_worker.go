package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"fintrack/internal/amqp"
	"fintrack/internal/sheets"
)

// ExportWorker mirrors transaction events into a spreadsheet.
type ExportWorker struct {
	exporter sheets.TransactionExporter

	exported atomic.Int64
	removed  atomic.Int64
}

func NewExportWorker(exporter sheets.TransactionExporter) *ExportWorker {
	return &ExportWorker{exporter: exporter}
}

// Handle processes a single event. It satisfies amqp.EventHandler; returning
// an error causes the broker to redeliver, so both branches rely on the
// exporter being idempotent.
func (w *ExportWorker) Handle(ctx context.Context, ev *amqp.TransactionEvent) error {
	if ev == nil {
		return amqp.ErrMalformedEvent
	}

	slog.InfoContext(ctx, "Processing transaction event",
		"type", ev.Type,
		"id", ev.TransactionID,
		"timestamp", ev.Timestamp)

	switch ev.Type {
	case amqp.EventTransactionCreated:
		return w.export(ctx, ev)
	case amqp.EventTransactionDeleted:
		return w.remove(ctx, ev)
	default:
		slog.WarnContext(ctx, "Skipping unknown event type", "type", ev.Type, "id", ev.TransactionID)
		return fmt.Errorf("%w: unknown type %q", amqp.ErrMalformedEvent, ev.Type)
	}
}

func (w *ExportWorker) export(ctx context.Context, ev *amqp.TransactionEvent) error {
	if ev.Transaction == nil {
		return fmt.Errorf("%w: created event without transaction", amqp.ErrMalformedEvent)
	}
	t, err := ev.Transaction.ToTransaction()
	if err != nil {
		return fmt.Errorf("%w: %v", amqp.ErrMalformedEvent, err)
	}

	ref, err := w.exporter.Export(ctx, t)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to export transaction", "id", t.ID, "error", err)
		return fmt.Errorf("export transaction: %w", err)
	}
	w.exported.Add(1)

	slog.InfoContext(ctx, "Successfully exported transaction",
		"id", t.ID,
		"sheets_ref", ref,
		"category", t.Category,
		"amount", t.Amount.String())
	return nil
}

func (w *ExportWorker) remove(ctx context.Context, ev *amqp.TransactionEvent) error {
	if err := w.exporter.Remove(ctx, ev.TransactionID); err != nil {
		slog.ErrorContext(ctx, "Failed to remove transaction", "id", ev.TransactionID, "error", err)
		return fmt.Errorf("remove transaction: %w", err)
	}
	w.removed.Add(1)

	slog.InfoContext(ctx, "Successfully removed transaction", "id", ev.TransactionID)
	return nil
}

// Stats reports how many events were applied since start.
func (w *ExportWorker) Stats() (exported, removed int64) {
	return w.exported.Load(), w.removed.Load()
}
