package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets/memory"
)

type failingExporter struct{ err error }

func (f failingExporter) Export(context.Context, core.Transaction) (string, error) {
	return "", f.err
}

func (f failingExporter) Remove(context.Context, uuid.UUID) error { return f.err }

func TestExportWorker_CreatedThenDeleted(t *testing.T) {
	ctx := context.Background()
	exp := memory.New()
	w := NewExportWorker(exp)

	tx := core.NewTransaction(core.MustAmount("19.90"), "Food", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), "pizza", true)
	created := amqp.NewTransactionCreated(tx)

	require.NoError(t, w.Handle(ctx, created))
	// Redelivery leaves a single row.
	require.NoError(t, w.Handle(ctx, created))

	rows := exp.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, []string{tx.ID.String(), "2025-03-10", "expense", "Food", "19.90", "pizza"}, rows[0])

	require.NoError(t, w.Handle(ctx, amqp.NewTransactionDeleted(tx.ID)))
	assert.Empty(t, exp.Rows())

	exported, removed := w.Stats()
	assert.Equal(t, int64(2), exported)
	assert.Equal(t, int64(1), removed)
}

func TestExportWorker_Malformed(t *testing.T) {
	w := NewExportWorker(memory.New())
	ctx := context.Background()

	tests := []struct {
		name string
		ev   *amqp.TransactionEvent
	}{
		{"nil event", nil},
		{"unknown type", &amqp.TransactionEvent{Type: "transaction.renamed", TransactionID: uuid.New()}},
		{"created without payload", &amqp.TransactionEvent{Type: amqp.EventTransactionCreated, TransactionID: uuid.New()}},
		{"bad amount", &amqp.TransactionEvent{
			Type:          amqp.EventTransactionCreated,
			TransactionID: uuid.New(),
			Transaction:   &amqp.TransactionPayload{ID: uuid.New(), Amount: "twelve", Category: "Food", Date: time.Now()},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.Handle(ctx, tt.ev)
			assert.ErrorIs(t, err, amqp.ErrMalformedEvent)
		})
	}
}

func TestExportWorker_ExporterFailureIsRetryable(t *testing.T) {
	boom := errors.New("quota exceeded")
	w := NewExportWorker(failingExporter{err: boom})
	ctx := context.Background()

	tx := core.NewTransaction(core.MustAmount("1"), "Food", time.Now(), "", true)
	err := w.Handle(ctx, amqp.NewTransactionCreated(tx))
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, amqp.ErrMalformedEvent)

	err = w.Handle(ctx, amqp.NewTransactionDeleted(tx.ID))
	require.ErrorIs(t, err, boom)

	exported, removed := w.Stats()
	assert.Zero(t, exported)
	assert.Zero(t, removed)
}
