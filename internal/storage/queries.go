package storage

import (
	"context"
)

const createTransaction = `
INSERT INTO transactions (id, amount, category, occurred_at, note, is_expense, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

type CreateTransactionParams struct {
	ID         string
	Amount     string
	Category   string
	OccurredAt int64
	Note       string
	IsExpense  bool
	CreatedAt  int64
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID,
		arg.Amount,
		arg.Category,
		arg.OccurredAt,
		arg.Note,
		boolToInt(arg.IsExpense),
		arg.CreatedAt,
	)
	return err
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listTransactionsDesc = `
SELECT id, amount, category, occurred_at, note, is_expense, created_at
FROM transactions
ORDER BY occurred_at DESC, rowid ASC`

const listTransactionsAsc = `
SELECT id, amount, category, occurred_at, note, is_expense, created_at
FROM transactions
ORDER BY occurred_at ASC, rowid ASC`

func (q *Queries) ListTransactions(ctx context.Context, ascending bool) ([]TransactionRow, error) {
	query := listTransactionsDesc
	if ascending {
		query = listTransactionsAsc
	}
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []TransactionRow{}
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(
			&i.ID,
			&i.Amount,
			&i.Category,
			&i.OccurredAt,
			&i.Note,
			&i.IsExpense,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createBudget = `
INSERT INTO budgets (id, amount, start_date, end_date)
VALUES (?, ?, ?, ?)`

func (q *Queries) CreateBudget(ctx context.Context, arg BudgetRow) error {
	_, err := q.db.ExecContext(ctx, createBudget, arg.ID, arg.Amount, arg.StartDate, arg.EndDate)
	return err
}

const deleteBudget = `DELETE FROM budgets WHERE id = ?`

func (q *Queries) DeleteBudget(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteBudget, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listBudgets = `
SELECT id, amount, start_date, end_date
FROM budgets
ORDER BY start_date ASC, rowid ASC`

func (q *Queries) ListBudgets(ctx context.Context) ([]BudgetRow, error) {
	rows, err := q.db.QueryContext(ctx, listBudgets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []BudgetRow{}
	for rows.Next() {
		var i BudgetRow
		if err := rows.Scan(&i.ID, &i.Amount, &i.StartDate, &i.EndDate); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createGoal = `
INSERT INTO goals (id, title, target_amount, current_amount, start_date, end_date, color)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateGoal(ctx context.Context, arg GoalRow) error {
	_, err := q.db.ExecContext(ctx, createGoal,
		arg.ID,
		arg.Title,
		arg.TargetAmount,
		arg.CurrentAmount,
		arg.StartDate,
		arg.EndDate,
		arg.Color,
	)
	return err
}

const deleteGoal = `DELETE FROM goals WHERE id = ?`

func (q *Queries) DeleteGoal(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteGoal, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const goalColumns = `id, title, target_amount, current_amount, start_date, end_date, color`

const getGoal = `SELECT ` + goalColumns + ` FROM goals WHERE id = ?`

func (q *Queries) GetGoal(ctx context.Context, id string) (GoalRow, error) {
	row := q.db.QueryRowContext(ctx, getGoal, id)
	var i GoalRow
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.TargetAmount,
		&i.CurrentAmount,
		&i.StartDate,
		&i.EndDate,
		&i.Color,
	)
	return i, err
}

const listGoals = `SELECT ` + goalColumns + ` FROM goals ORDER BY rowid ASC`

func (q *Queries) ListGoals(ctx context.Context) ([]GoalRow, error) {
	rows, err := q.db.QueryContext(ctx, listGoals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GoalRow{}
	for rows.Next() {
		var i GoalRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.TargetAmount,
			&i.CurrentAmount,
			&i.StartDate,
			&i.EndDate,
			&i.Color,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateGoalAmount = `UPDATE goals SET current_amount = ? WHERE id = ?`

func (q *Queries) UpdateGoalAmount(ctx context.Context, id, amount string) error {
	_, err := q.db.ExecContext(ctx, updateGoalAmount, amount, id)
	return err
}

const createPost = `
INSERT INTO posts (id, title, content, image_name)
VALUES (?, ?, ?, ?)`

func (q *Queries) CreatePost(ctx context.Context, arg PostRow) error {
	_, err := q.db.ExecContext(ctx, createPost, arg.ID, arg.Title, arg.Content, arg.ImageName)
	return err
}

const getPost = `SELECT id, title, content, image_name FROM posts WHERE id = ?`

func (q *Queries) GetPost(ctx context.Context, id string) (PostRow, error) {
	row := q.db.QueryRowContext(ctx, getPost, id)
	var i PostRow
	err := row.Scan(&i.ID, &i.Title, &i.Content, &i.ImageName)
	return i, err
}

const listPosts = `SELECT id, title, content, image_name FROM posts ORDER BY rowid ASC`

func (q *Queries) ListPosts(ctx context.Context) ([]PostRow, error) {
	rows, err := q.db.QueryContext(ctx, listPosts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PostRow{}
	for rows.Next() {
		var i PostRow
		if err := rows.Scan(&i.ID, &i.Title, &i.Content, &i.ImageName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countPosts = `SELECT COUNT(*) FROM posts`

func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPosts).Scan(&n)
	return n, err
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
