package storage

// Row types mirror the tables one to one. Amounts are decimal strings and
// timestamps are unix milliseconds.

type TransactionRow struct {
	ID         string
	Amount     string
	Category   string
	OccurredAt int64
	Note       string
	IsExpense  bool
	CreatedAt  int64
}

type BudgetRow struct {
	ID        string
	Amount    string
	StartDate int64
	EndDate   int64
}

type GoalRow struct {
	ID            string
	Title         string
	TargetAmount  string
	CurrentAmount string
	StartDate     int64
	EndDate       int64
	Color         string
}

type PostRow struct {
	ID        string
	Title     string
	Content   string
	ImageName string
}
