// Package ingest reads transactions from external files.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack/internal/core"
)

// Columns is the expected CSV header. Column order in the file is free;
// Note is optional.
var Columns = []string{"Date", "Amount", "Category", "Type", "Note"}

var requiredColumns = []string{"Date", "Amount", "Category", "Type"}

// ParseCSV reads transactions from r. Dates without a time are midnight in
// loc. It returns the valid transactions and one message per rejected row;
// a file that cannot be read at all yields a single message and no rows.
func ParseCSV(r io.Reader, loc *time.Location) ([]core.Transaction, []string) {
	if loc == nil {
		loc = time.Local
	}
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []core.Transaction{}, nil
	}
	if err != nil {
		return nil, []string{fmt.Sprintf("Failed to read CSV header: %v", err)}
	}
	index, err := parseHeader(header)
	if err != nil {
		return nil, []string{err.Error()}
	}

	transactions := []core.Transaction{}
	var problems []string
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if isBlank(record) {
			continue
		}

		t, err := toTransaction(record, index, loc)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		transactions = append(transactions, t)
	}
	return transactions, problems
}

func parseHeader(row []string) (map[string]int, error) {
	index := make(map[string]int, len(row))
	for i, h := range row {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for _, c := range Columns {
			if strings.EqualFold(h, c) {
				index[c] = i
			}
		}
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func toTransaction(record []string, index map[string]int, loc *time.Location) (core.Transaction, error) {
	dateStr := field(record, index, "Date")
	if dateStr == "" {
		return core.Transaction{}, fmt.Errorf("missing Date")
	}
	date, err := parseDate(dateStr, loc)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid Date format: %s", dateStr)
	}

	amountStr := field(record, index, "Amount")
	if amountStr == "" {
		return core.Transaction{}, fmt.Errorf("missing Amount")
	}
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid Amount: %s", amountStr)
	}

	var isExpense bool
	switch typ := field(record, index, "Type"); strings.ToLower(typ) {
	case "expense":
		isExpense = true
	case "income":
	case "":
		return core.Transaction{}, fmt.Errorf("missing Type")
	default:
		return core.Transaction{}, fmt.Errorf("invalid Type: %s", typ)
	}

	t := core.NewTransaction(amount, field(record, index, "Category"), date, field(record, index, "Note"), isExpense)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
