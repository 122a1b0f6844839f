package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// ErrMalformedEvent marks events that can never be handled, however often
// they are redelivered. Handlers wrap it to have the message dropped.
var ErrMalformedEvent = errors.New("malformed event")

// EventType names what happened to a transaction.
type EventType string

const (
	EventTransactionCreated EventType = "transaction.created"
	EventTransactionDeleted EventType = "transaction.deleted"
)

// TransactionPayload is the wire form of a transaction. Amount is a decimal
// string so no precision is lost in transit.
type TransactionPayload struct {
	ID        uuid.UUID `json:"id"`
	Amount    string    `json:"amount"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	Note      string    `json:"note,omitempty"`
	IsExpense bool      `json:"is_expense"`
}

// TransactionEvent is published after a transaction is stored or removed.
// Created events carry the full transaction so consumers need no database
// access; deleted events carry only the ID.
type TransactionEvent struct {
	Type          EventType           `json:"type"`
	TransactionID uuid.UUID           `json:"transaction_id"`
	Transaction   *TransactionPayload `json:"transaction,omitempty"`
	Timestamp     time.Time           `json:"timestamp"`
}

func NewTransactionCreated(t core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Type:          EventTransactionCreated,
		TransactionID: t.ID,
		Transaction: &TransactionPayload{
			ID:        t.ID,
			Amount:    t.Amount.String(),
			Category:  t.Category,
			Date:      t.Date,
			Note:      t.Note,
			IsExpense: t.IsExpense,
		},
		Timestamp: time.Now(),
	}
}

func NewTransactionDeleted(id uuid.UUID) *TransactionEvent {
	return &TransactionEvent{
		Type:          EventTransactionDeleted,
		TransactionID: id,
		Timestamp:     time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes and validates an event body.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.TransactionID == uuid.Nil {
		return nil, fmt.Errorf("event without transaction id")
	}
	switch ev.Type {
	case EventTransactionCreated:
		if ev.Transaction == nil {
			return nil, fmt.Errorf("created event without transaction")
		}
	case EventTransactionDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return &ev, nil
}

// ToTransaction converts the payload back into a domain value.
func (p TransactionPayload) ToTransaction() (core.Transaction, error) {
	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", p.Amount, err)
	}
	return core.Transaction{
		ID:        p.ID,
		Amount:    amount,
		Category:  p.Category,
		Date:      p.Date,
		Note:      p.Note,
		IsExpense: p.IsExpense,
	}, nil
}
