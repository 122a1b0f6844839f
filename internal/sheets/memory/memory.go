package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

// Exporter is an in-memory sheet. The worker falls back to it when no
// spreadsheet is configured, and tests use it to inspect exported rows.
type Exporter struct {
	mu   sync.Mutex
	rows [][]string
}

var _ ports.TransactionExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// Export appends the row unless a row with the same ID exists.
func (e *Exporter) Export(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexOf(t.ID); i >= 0 {
		return fmt.Sprintf("mem:%d", i+1), nil
	}
	e.rows = append(e.rows, ports.Row(t))
	return fmt.Sprintf("mem:%d", len(e.rows)), nil
}

// Remove blanks the row of id, keeping later row numbers stable like a
// cleared spreadsheet range. Unknown IDs are ignored.
func (e *Exporter) Remove(_ context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexOf(id); i >= 0 {
		e.rows[i] = nil
	}
	return nil
}

// Rows returns the non-blank rows.
func (e *Exporter) Rows() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]string, 0, len(e.rows))
	for _, r := range e.rows {
		if r != nil {
			out = append(out, append([]string(nil), r...))
		}
	}
	return out
}

func (e *Exporter) indexOf(id uuid.UUID) int {
	key := id.String()
	for i, r := range e.rows {
		if len(r) > 0 && r[0] == key {
			return i
		}
	}
	return -1
}
