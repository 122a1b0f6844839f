package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
)

// fakeSheet emulates the three Values endpoints the client uses.
type fakeSheet struct {
	mu      sync.Mutex
	rows    [][]string
	appends int
	clears  int
	gets    int
}

var rowRangeRe = regexp.MustCompile(`!A(\d+):F\d+:clear$`)

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "!A:A"):
		f.gets++
		values := make([][]string, len(f.rows))
		for i, row := range f.rows {
			if len(row) > 0 {
				values[i] = []string{row[0]}
			} else {
				values[i] = []string{}
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"range": "Transactions!A:A", "values": values})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		f.appends++
		var body struct {
			Values [][]string `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.rows = append(f.rows, body.Values...)
		n := len(f.rows)
		json.NewEncoder(w).Encode(map[string]any{
			"spreadsheetId": "sid",
			"updates":       map[string]any{"updatedRange": fmt.Sprintf("Transactions!A%d:F%d", n, n), "updatedRows": 1},
		})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		f.clears++
		m := rowRangeRe.FindStringSubmatch(path)
		if m == nil {
			http.Error(w, "bad range "+path, http.StatusBadRequest)
			return
		}
		row, _ := strconv.Atoi(m[1])
		if row >= 1 && row <= len(f.rows) {
			f.rows[row-1] = nil
		}
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sid", "clearedRange": strings.TrimSuffix(path, ":clear")})

	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, sheet *fakeSheet) *Client {
	t.Helper()
	srv := httptest.NewServer(sheet)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewWithService(svc, "sid", "Transactions")
}

func TestClient_ExportAndRemove(t *testing.T) {
	sheet := &fakeSheet{rows: [][]string{{"ID", "Date", "Type", "Category", "Amount", "Note"}}}
	c := newTestClient(t, sheet)
	ctx := context.Background()

	tx := core.NewTransaction(core.MustAmount("42"), "Work", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), "", false)
	ref, err := c.Export(ctx, tx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if ref != "Transactions!A2:F2" {
		t.Errorf("ref = %q", ref)
	}
	if got := sheet.rows[1]; got[0] != tx.ID.String() || got[2] != "income" || got[4] != "42.00" {
		t.Errorf("unexpected row %v", got)
	}

	// Redelivered event: no second append.
	ref, err = c.Export(ctx, tx)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if sheet.appends != 1 || ref != "Transactions!A2:F2" {
		t.Errorf("appends=%d ref=%q", sheet.appends, ref)
	}

	if err := c.Remove(ctx, tx.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if sheet.clears != 1 || sheet.rows[1] != nil {
		t.Errorf("row not cleared: clears=%d rows=%v", sheet.clears, sheet.rows)
	}

	if err := c.Remove(ctx, tx.ID); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	if sheet.clears != 1 {
		t.Errorf("unexpected extra clear")
	}
}

func TestClient_IDColumnCached(t *testing.T) {
	sheet := &fakeSheet{}
	c := newTestClient(t, sheet)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.Remove(ctx, uuid.New()); err != nil {
			t.Fatalf("remove: %v", err)
		}
	}
	if sheet.gets != 1 {
		t.Errorf("expected column A to be read once, got %d", sheet.gets)
	}

	c.idsTTL = 0
	c.invalidateIDs()
	_ = c.Remove(ctx, uuid.New())
	if sheet.gets != 2 {
		t.Errorf("expected re-read after invalidation, got %d", sheet.gets)
	}
}

func TestClient_ExportValidates(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	_, err := c.Export(context.Background(), core.Transaction{ID: uuid.New(), Date: time.Now(), Category: "Food"})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}

	valid := core.NewTransaction(core.MustAmount("1"), "Food", time.Now(), "", true)
	if _, err := c.Export(context.Background(), valid); err == nil {
		t.Fatal("expected error with nil service")
	}
	if err := c.Remove(context.Background(), valid.ID); err == nil {
		t.Fatal("expected error with nil service")
	}
}

func TestNew_MissingConfig(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "sid"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := filepath.Join(t.TempDir(), "nope.json")
	_, err = New(context.Background(), Config{SpreadsheetID: "sid", ServiceAccountFile: missing})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFindRow(t *testing.T) {
	ids := firstColumn([][]interface{}{{"ID"}, {}, {" abc "}, {"DEF", "x"}})
	tests := []struct {
		id   string
		want int
	}{
		{"abc", 3},
		{"def", 4},
		{"ID", 1},
		{"zzz", 0},
	}
	for _, tt := range tests {
		if got := findRow(ids, tt.id); got != tt.want {
			t.Errorf("findRow(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
	if ids[1] != "" {
		t.Errorf("empty row should map to empty id, got %q", ids[1])
	}
}
