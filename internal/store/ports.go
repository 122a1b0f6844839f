// Package store declares the persistence ports shared by the memory and
// SQLite backends.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// ErrNotFound is returned when a record with the requested ID does not exist.
var ErrNotFound = errors.New("record not found")

// SortOrder controls the order of ListTransactions.
type SortOrder int

const (
	// DateDescending lists newest first.
	DateDescending SortOrder = iota
	DateAscending
)

// ParseSortOrder maps "asc" to DateAscending and anything else to the default.
func ParseSortOrder(s string) SortOrder {
	if s == "asc" {
		return DateAscending
	}
	return DateDescending
}

// Ports for persistence adapters.
type (
	TransactionStore interface {
		AddTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id uuid.UUID) error
		ListTransactions(ctx context.Context, order SortOrder) ([]core.Transaction, error)
	}

	BudgetStore interface {
		AddBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id uuid.UUID) error
		ListBudgets(ctx context.Context) ([]core.Budget, error)
	}

	GoalStore interface {
		AddGoal(ctx context.Context, g core.Goal) error
		DeleteGoal(ctx context.Context, id uuid.UUID) error
		ListGoals(ctx context.Context) ([]core.Goal, error)
		GetGoal(ctx context.Context, id uuid.UUID) (core.Goal, error)
		// ContributeToGoal adds amount to the goal's current amount and
		// returns the updated goal.
		ContributeToGoal(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (core.Goal, error)
	}

	PostStore interface {
		AddPost(ctx context.Context, p core.Post) error
		ListPosts(ctx context.Context) ([]core.Post, error)
		GetPost(ctx context.Context, id uuid.UUID) (core.Post, error)
	}

	// Store is the full set of ports a backend provides.
	Store interface {
		TransactionStore
		BudgetStore
		GoalStore
		PostStore
		Close() error
	}
)

// DefaultPosts are the articles seeded into an empty post store.
func DefaultPosts() []core.Post {
	return []core.Post{
		core.NewPost(
			"How to start budgeting",
			"Pick a period, set an amount you are comfortable spending, and record every expense as it happens. "+
				"Check the remaining amount each week and adjust before the period ends.",
			"budgeting",
		),
		core.NewPost(
			"Saving towards a goal",
			"Give the goal a name, a target and a deadline. Small regular contributions add up faster than "+
				"occasional large ones, and the progress bar keeps the target in sight.",
			"saving",
		),
	}
}
