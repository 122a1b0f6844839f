package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

func TestExporterExportAndRemove(t *testing.T) {
	ctx := context.Background()
	e := New()
	tx := core.NewTransaction(core.MustAmount("12.5"), "Food", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "lunch", true)

	ref, err := e.Export(ctx, tx)
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected export: ref=%q err=%v", ref, err)
	}
	// Redelivery must not duplicate the row.
	ref, err = e.Export(ctx, tx)
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected re-export: ref=%q err=%v", ref, err)
	}

	rows := e.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := []string{tx.ID.String(), "2025-03-10", "expense", "Food", "12.50", "lunch"}
	for i := range want {
		if rows[0][i] != want[i] {
			t.Fatalf("column %d = %q, want %q", i, rows[0][i], want[i])
		}
	}

	if err := e.Remove(ctx, uuid.New()); err != nil {
		t.Fatalf("removing unknown id: %v", err)
	}
	if err := e.Remove(ctx, tx.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(e.Rows()) != 0 {
		t.Fatalf("row not removed: %v", e.Rows())
	}
}

func TestExporterRejectsInvalid(t *testing.T) {
	e := New()
	if _, err := e.Export(context.Background(), core.Transaction{ID: uuid.New()}); err == nil {
		t.Fatal("expected validation error")
	}
}
