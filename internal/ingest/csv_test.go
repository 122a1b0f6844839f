package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseCSV_Valid(t *testing.T) {
	content := `Date,Amount,Category,Type,Note
2025-03-10,12.50,Food,expense,lunch
2025-03-11T09:30:00Z,"1,5",Work,Income,`

	transactions, errors := ParseCSV(strings.NewReader(content), time.UTC)

	if len(errors) != 0 {
		t.Fatalf("Expected no errors, got: %v", errors)
	}
	if len(transactions) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(transactions))
	}

	t1 := transactions[0]
	if !t1.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Expected Amount 12.5, got %s", t1.Amount)
	}
	if !t1.IsExpense || t1.Category != "Food" || t1.Note != "lunch" {
		t.Errorf("Unexpected first transaction: %+v", t1)
	}
	if !t1.Date.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected midnight date, got %v", t1.Date)
	}

	t2 := transactions[1]
	if t2.IsExpense {
		t.Errorf("Expected income, got expense")
	}
	if !t2.Amount.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("Expected Amount 1.5, got %s", t2.Amount)
	}
	if t1.ID == t2.ID {
		t.Errorf("Expected distinct IDs")
	}
}

func TestParseCSV_Location(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skip("tzdata not available")
	}
	transactions, errors := ParseCSV(strings.NewReader("Date,Amount,Category,Type\n2025-03-10,1,Food,expense\n"), rome)
	if len(errors) != 0 || len(transactions) != 1 {
		t.Fatalf("unexpected result: %v %v", transactions, errors)
	}
	if want := time.Date(2025, 3, 10, 0, 0, 0, 0, rome); !transactions[0].Date.Equal(want) {
		t.Errorf("Date = %v, want %v", transactions[0].Date, want)
	}
}

func TestParseCSV_ReorderedAndWhitespace(t *testing.T) {
	content := "\ufeff type , Category , Amount , Date\n income , Work , 200 , 2025-03-01 \n\n"

	transactions, errors := ParseCSV(strings.NewReader(content), time.UTC)

	if len(errors) != 0 {
		t.Fatalf("Expected no errors, got: %v", errors)
	}
	if len(transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(transactions))
	}
	if transactions[0].Category != "Work" || transactions[0].Note != "" {
		t.Errorf("Unexpected transaction: %+v", transactions[0])
	}
}

func TestParseCSV_InvalidRows(t *testing.T) {
	content := `Date,Amount,Category,Type,Note
,10,Food,expense,
10/03/2025,10,Food,expense,
2025-03-10,,Food,expense,
2025-03-10,-4,Food,expense,
2025-03-10,4,,expense,
2025-03-10,4,Food,,
2025-03-10,4,Food,transfer,
2025-03-10,4,Food,expense,` + strings.Repeat("x", 201) + `
2025-03-10,4,Food,expense,ok`

	transactions, errors := ParseCSV(strings.NewReader(content), time.UTC)

	if len(transactions) != 1 {
		t.Fatalf("Expected 1 valid transaction, got %d", len(transactions))
	}
	wants := []string{
		"Row 2: missing Date",
		"Row 3: invalid Date format: 10/03/2025",
		"Row 4: missing Amount",
		"Row 5: invalid Amount: -4",
		"Row 6: empty category",
		"Row 7: missing Type",
		"Row 8: invalid Type: transfer",
		"Row 9: note too long",
	}
	if len(errors) != len(wants) {
		t.Fatalf("Expected %d errors, got %d: %v", len(wants), len(errors), errors)
	}
	for i, want := range wants {
		if !strings.HasPrefix(errors[i], want) {
			t.Errorf("error %d = %q, want prefix %q", i, errors[i], want)
		}
	}
}

func TestParseCSV_MissingColumns(t *testing.T) {
	_, errors := ParseCSV(strings.NewReader("Date,Amount\n2025-03-10,1\n"), time.UTC)
	if len(errors) != 1 || errors[0] != "missing columns: Category, Type" {
		t.Errorf("unexpected errors: %v", errors)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	transactions, errors := ParseCSV(strings.NewReader(""), time.UTC)
	if len(transactions) != 0 || len(errors) != 0 {
		t.Errorf("Expected empty result, got %v %v", transactions, errors)
	}

	transactions, errors = ParseCSV(strings.NewReader(strings.Join(Columns, ",")+"\n"), time.UTC)
	if transactions == nil || len(transactions) != 0 || len(errors) != 0 {
		t.Errorf("Expected empty non-nil result, got %v %v", transactions, errors)
	}
}
