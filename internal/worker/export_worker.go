package worker

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/core"
	"expensetracker/internal/events"
)

// ExpenseReader loads expenses for export.
type ExpenseReader interface {
	GetExpense(ctx context.Context, id string) (core.Expense, error)
}

// Exporter writes expenses to the external destination.
type Exporter interface {
	AppendExpense(ctx context.Context, e core.Expense) error
}

// ExportWorker consumes expense events and exports the affected rows.
type ExportWorker struct {
	reader   ExpenseReader
	exporter Exporter
}

func NewExportWorker(reader ExpenseReader, exporter Exporter) *ExportWorker {
	return &ExportWorker{
		reader:   reader,
		exporter: exporter,
	}
}

// HandleEvent processes one expense event. Returning an error nacks the
// message so the broker redelivers it.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *events.ExpenseEventMessage) error {
	slog.InfoContext(ctx, "Processing expense event",
		"id", msg.ID,
		"action", msg.Action)

	switch msg.Action {
	case "created", "updated":
	case "deleted":
		// Exported rows are append-only, nothing to undo.
		slog.InfoContext(ctx, "Skipping deleted expense", "id", msg.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown event action, skipping",
			"id", msg.ID,
			"action", msg.Action)
		return nil
	}

	expense, err := w.reader.GetExpense(ctx, msg.ID)
	if err != nil {
		if core.KindOf(err) == core.KindNotFound {
			// Deleted between event and processing; requeueing cannot help.
			slog.WarnContext(ctx, "Expense no longer exists, skipping", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("get expense %s: %w", msg.ID, err)
	}

	if err := w.exporter.AppendExpense(ctx, expense); err != nil {
		return fmt.Errorf("export expense %s: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Expense exported",
		"id", msg.ID,
		"action", msg.Action)
	return nil
}
