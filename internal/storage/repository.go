package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements store.Store on a single SQLite file.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	loc     *time.Location
}

// NewSQLiteRepository opens (and migrates) the database at dbPath. Stored
// instants are read back in loc; nil means UTC.
func NewSQLiteRepository(dbPath string, loc *time.Location) (*SQLiteRepository, error) {
	if loc == nil {
		loc = time.UTC
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("SQLite store ready", "path", dbPath, "schema_version", version, "location", loc.String())

	return &SQLiteRepository{db: db, queries: New(db), loc: loc}, nil
}

func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		ID:         t.ID.String(),
		Amount:     t.Amount.String(),
		Category:   t.Category,
		OccurredAt: t.Date.UnixMilli(),
		Note:       t.Note,
		IsExpense:  t.IsExpense,
		CreatedAt:  time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"amount", t.Amount.String(),
		"category", t.Category,
		"is_expense", t.IsExpense)
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.DeleteTransaction(ctx, id.String())
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, order store.SortOrder) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, order == store.DateAscending)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := transactionFromRow(row, r.loc)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *SQLiteRepository) AddBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	err := r.queries.CreateBudget(ctx, BudgetRow{
		ID:        b.ID.String(),
		Amount:    b.Amount.String(),
		StartDate: b.StartDate.UnixMilli(),
		EndDate:   b.EndDate.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.DeleteBudget(ctx, id.String())
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.queries.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	out := make([]core.Budget, 0, len(rows))
	for _, row := range rows {
		id, amount, err := parseIDAmount(row.ID, row.Amount)
		if err != nil {
			return nil, fmt.Errorf("decode budget: %w", err)
		}
		out = append(out, core.Budget{
			ID:        id,
			Amount:    amount,
			StartDate: fromMillis(row.StartDate, r.loc),
			EndDate:   fromMillis(row.EndDate, r.loc),
		})
	}
	return out, nil
}

func (r *SQLiteRepository) AddGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	err := r.queries.CreateGoal(ctx, GoalRow{
		ID:            g.ID.String(),
		Title:         g.Title,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		StartDate:     g.StartDate.UnixMilli(),
		EndDate:       g.EndDate.UnixMilli(),
		Color:         string(g.Color),
	})
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.DeleteGoal(ctx, id.String())
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.queries.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]core.Goal, 0, len(rows))
	for _, row := range rows {
		g, err := goalFromRow(row, r.loc)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id uuid.UUID) (core.Goal, error) {
	row, err := r.queries.GetGoal(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, store.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return goalFromRow(row, r.loc)
}

// ContributeToGoal reads, updates and writes the goal inside one database
// transaction so concurrent deposits are not lost.
func (r *SQLiteRepository) ContributeToGoal(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (core.Goal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Goal{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	row, err := q.GetGoal(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, store.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	g, err := goalFromRow(row, r.loc)
	if err != nil {
		return core.Goal{}, err
	}
	if err := g.Contribute(amount); err != nil {
		return core.Goal{}, err
	}
	if err := q.UpdateGoalAmount(ctx, row.ID, g.CurrentAmount.String()); err != nil {
		return core.Goal{}, fmt.Errorf("update goal amount: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Goal{}, fmt.Errorf("commit contribution: %w", err)
	}

	slog.InfoContext(ctx, "Goal contribution saved",
		"goal_id", g.ID,
		"amount", amount.String(),
		"current", g.CurrentAmount.String())
	return g, nil
}

func (r *SQLiteRepository) AddPost(ctx context.Context, p core.Post) error {
	if p.Title == "" {
		return core.ErrEmptyTitle
	}
	err := r.queries.CreatePost(ctx, PostRow{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		ImageName: p.ImageName,
	})
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListPosts(ctx context.Context) ([]core.Post, error) {
	rows, err := r.queries.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out := make([]core.Post, 0, len(rows))
	for _, row := range rows {
		p, err := postFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *SQLiteRepository) GetPost(ctx context.Context, id uuid.UUID) (core.Post, error) {
	row, err := r.queries.GetPost(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.Post{}, store.ErrNotFound
	}
	if err != nil {
		return core.Post{}, fmt.Errorf("get post: %w", err)
	}
	return postFromRow(row)
}

// PostCount reports how many posts are stored.
func (r *SQLiteRepository) PostCount(ctx context.Context) (int64, error) {
	n, err := r.queries.CountPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func transactionFromRow(row TransactionRow, loc *time.Location) (core.Transaction, error) {
	id, amount, err := parseIDAmount(row.ID, row.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction: %w", err)
	}
	return core.Transaction{
		ID:        id,
		Amount:    amount,
		Category:  row.Category,
		Date:      fromMillis(row.OccurredAt, loc),
		Note:      row.Note,
		IsExpense: row.IsExpense,
	}, nil
}

func goalFromRow(row GoalRow, loc *time.Location) (core.Goal, error) {
	id, target, err := parseIDAmount(row.ID, row.TargetAmount)
	if err != nil {
		return core.Goal{}, fmt.Errorf("decode goal: %w", err)
	}
	current, err := decimal.NewFromString(row.CurrentAmount)
	if err != nil {
		return core.Goal{}, fmt.Errorf("decode goal current amount %q: %w", row.CurrentAmount, err)
	}
	return core.Goal{
		ID:            id,
		Title:         row.Title,
		TargetAmount:  target,
		CurrentAmount: current,
		StartDate:     fromMillis(row.StartDate, loc),
		EndDate:       fromMillis(row.EndDate, loc),
		Color:         core.ColorTag(row.Color),
	}, nil
}

func postFromRow(row PostRow) (core.Post, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return core.Post{}, fmt.Errorf("decode post id %q: %w", row.ID, err)
	}
	return core.Post{ID: id, Title: row.Title, Content: row.Content, ImageName: row.ImageName}, nil
}

func parseIDAmount(rawID, rawAmount string) (uuid.UUID, decimal.Decimal, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, decimal.Zero, fmt.Errorf("id %q: %w", rawID, err)
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return uuid.Nil, decimal.Zero, fmt.Errorf("amount %q: %w", rawAmount, err)
	}
	return id, amount, nil
}

// fromMillis restores a stored instant in loc, so calendar-day arithmetic
// on the result matches the service location.
func fromMillis(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(loc)
}

var _ store.Store = (*SQLiteRepository)(nil)
