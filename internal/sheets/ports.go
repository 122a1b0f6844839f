// Package sheets defines the spreadsheet export port and its adapters.
package sheets

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionExporter mirrors stored transactions into a spreadsheet.
	// Both operations must be idempotent: events can be redelivered.
	TransactionExporter interface {
		Export(ctx context.Context, t core.Transaction) (rowRef string, err error)
		Remove(ctx context.Context, id uuid.UUID) error
	}
)

// Header is the first row of the export sheet.
var Header = []string{"ID", "Date", "Type", "Category", "Amount", "Note"}

// Row renders t in Header column order. The date is written in t's own
// location so the sheet shows the day the user recorded.
func Row(t core.Transaction) []string {
	return []string{
		t.ID.String(),
		t.Date.Format(time.DateOnly),
		t.Kind(),
		t.Category,
		t.Amount.StringFixed(2),
		t.Note,
	}
}
