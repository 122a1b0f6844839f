package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// GoalService manages savings goals and their contributions.
type GoalService struct {
	store store.GoalStore
}

func NewGoalService(s store.GoalStore) *GoalService {
	return &GoalService{store: s}
}

// GoalInput carries the user-editable fields of a goal.
type GoalInput struct {
	Title  string
	Target decimal.Decimal
	Start  time.Time
	End    time.Time
	Color  core.ColorTag
}

func (s *GoalService) Create(ctx context.Context, in GoalInput) (analytics.GoalStatus, error) {
	g := core.NewGoal(in.Title, in.Target, in.Start, in.End, in.Color)
	if err := g.Validate(); err != nil {
		return analytics.GoalStatus{}, err
	}
	if err := s.store.AddGoal(ctx, g); err != nil {
		return analytics.GoalStatus{}, fmt.Errorf("save goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal created", "id", g.ID, "title", g.Title, "target", g.TargetAmount.String())
	return analytics.GoalStatus{Goal: g, Progress: analytics.GoalProgress(g)}, nil
}

func (s *GoalService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal deleted", "id", id)
	return nil
}

func (s *GoalService) List(ctx context.Context) ([]analytics.GoalStatus, error) {
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return analytics.GoalStatuses(goals), nil
}

// Contribute deposits amount into the goal. amount must be positive.
func (s *GoalService) Contribute(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (analytics.GoalStatus, error) {
	if !amount.IsPositive() {
		return analytics.GoalStatus{}, core.ErrInvalidAmount
	}
	g, err := s.store.ContributeToGoal(ctx, id, amount)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, core.ErrInvalidAmount) {
			return analytics.GoalStatus{}, err
		}
		return analytics.GoalStatus{}, fmt.Errorf("contribute to goal: %w", err)
	}
	progress := analytics.GoalProgress(g)
	slog.InfoContext(ctx, "Goal contribution recorded",
		"id", g.ID,
		"amount", amount.String(),
		"progress", progress.String())
	return analytics.GoalStatus{Goal: g, Progress: progress}, nil
}
