package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// EventPublisher is the outbound side of the event stream. *amqp.Client
// implements it.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// Invalidator is notified after every write that changes report inputs.
type Invalidator interface {
	Invalidate()
}

// TransactionFilter narrows List results. Zero values select everything.
type TransactionFilter struct {
	Kind  analytics.Kind
	Year  int
	Month time.Month
	Order store.SortOrder
}

// TransactionService orchestrates transaction writes across the store, the
// report cache and the optional event stream.
type TransactionService struct {
	store     store.TransactionStore
	publisher EventPublisher
	reports   Invalidator
	loc       *time.Location
}

// NewTransactionService wires the service. publisher and reports may be nil.
func NewTransactionService(s store.TransactionStore, publisher EventPublisher, reports Invalidator, loc *time.Location) *TransactionService {
	if loc == nil {
		loc = time.Local
	}
	return &TransactionService{store: s, publisher: publisher, reports: reports, loc: loc}
}

// Create validates and stores t, then publishes a created event. A publish
// failure is logged and does not fail the call: the record is already saved.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.AddTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.invalidate()

	slog.InfoContext(ctx, "Transaction created",
		"id", t.ID,
		"kind", t.Kind(),
		"category", t.Category,
		"amount", t.Amount.String())

	s.publish(ctx, amqp.NewTransactionCreated(t))
	return t, nil
}

// Delete removes the transaction and publishes a deleted event.
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.invalidate()

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	s.publish(ctx, amqp.NewTransactionDeleted(id))
	return nil
}

// List returns stored transactions narrowed by f.
func (s *TransactionService) List(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	ts, err := s.store.ListTransactions(ctx, f.Order)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if f.Kind != "" && f.Kind != analytics.KindAll {
		ts = analytics.FilterByKind(ts, f.Kind)
	}
	if f.Year != 0 && f.Month != 0 {
		ts = analytics.FilterByMonth(ts, f.Year, f.Month, s.loc)
	}
	return ts, nil
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported int
	Failed   int
}

// Import stores every transaction, continuing past individual failures.
func (s *TransactionService) Import(ctx context.Context, ts []core.Transaction) (ImportResult, error) {
	var res ImportResult
	for _, t := range ts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := s.Create(ctx, t); err != nil {
			res.Failed++
			slog.WarnContext(ctx, "Skipping transaction during import",
				"category", t.Category,
				"date", t.Date.Format(time.DateOnly),
				"error", err)
			continue
		}
		res.Imported++
	}
	return res, nil
}

func (s *TransactionService) invalidate() {
	if s.reports != nil {
		s.reports.Invalidate()
	}
}

func (s *TransactionService) publish(ctx context.Context, ev *amqp.TransactionEvent) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping event", "type", ev.Type)
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"type", ev.Type,
			"transaction_id", ev.TransactionID,
			"error", err)
	}
}
