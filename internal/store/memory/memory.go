package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Store keeps every record in process memory. It is the default backend and
// the one used by tests.
type Store struct {
	mu      sync.Mutex
	txs     []core.Transaction
	budgets []core.Budget
	goals   []core.Goal
	posts   []core.Post
}

func New() *Store {
	return &Store{}
}

// NewSeeded returns a store pre-populated with the default posts.
func NewSeeded() *Store {
	return &Store{posts: store.DefaultPosts()}
}

func (s *Store) AddTransaction(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, t)
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.txs {
		if t.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// ListTransactions returns a copy sorted by date. Equal dates keep insertion
// order.
func (s *Store) ListTransactions(_ context.Context, order store.SortOrder) ([]core.Transaction, error) {
	s.mu.Lock()
	out := append([]core.Transaction(nil), s.txs...)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if order == store.DateAscending {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})
	if out == nil {
		out = []core.Transaction{}
	}
	return out, nil
}

func (s *Store) AddBudget(_ context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = append(s.budgets, b)
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.budgets {
		if b.ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Budget{}, s.budgets...), nil
}

func (s *Store) AddGoal(_ context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal{}, s.goals...), nil
}

func (s *Store) GetGoal(_ context.Context, id uuid.UUID) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, store.ErrNotFound
}

func (s *Store) ContributeToGoal(_ context.Context, id uuid.UUID, amount decimal.Decimal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID != id {
			continue
		}
		if err := s.goals[i].Contribute(amount); err != nil {
			return core.Goal{}, err
		}
		return s.goals[i], nil
	}
	return core.Goal{}, store.ErrNotFound
}

func (s *Store) AddPost(_ context.Context, p core.Post) error {
	if p.Title == "" {
		return core.ErrEmptyTitle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, p)
	return nil
}

func (s *Store) ListPosts(_ context.Context) ([]core.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Post{}, s.posts...), nil
}

func (s *Store) GetPost(_ context.Context, id uuid.UUID) (core.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Post{}, store.ErrNotFound
}

func (s *Store) Close() error { return nil }

var _ store.Store = (*Store)(nil)
