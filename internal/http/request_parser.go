package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// amountInput accepts an amount as a JSON string ("12,50") or number (12.5).
type amountInput string

func (a *amountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a string or number")
	}
	*a = amountInput(n.String())
	return nil
}

// Decimal parses the amount with core.ParseAmount.
func (a amountInput) Decimal() (decimal.Decimal, error) {
	return core.ParseAmount(string(a))
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields
// and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return badRequest("request body too large")
		case errors.Is(err, io.EOF):
			return badRequest("request body is empty")
		default:
			return badRequest("invalid JSON: " + err.Error())
		}
	}
	if dec.More() {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}

// parseDate accepts YYYY-MM-DD, interpreted as midnight in loc, or an
// RFC 3339 timestamp.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, badRequest(fmt.Sprintf("invalid date %q: want YYYY-MM-DD or RFC 3339", s))
}

// parseOptionalDate returns def when s is blank.
func parseOptionalDate(s string, def time.Time, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return parseDate(s, loc)
}

// MonthParams is a calendar month selected with ?month=YYYY-MM.
type MonthParams struct {
	Year  int
	Month time.Month
}

// ParseMonthParam parses YYYY-MM. An empty value selects no month.
func ParseMonthParam(s string) (MonthParams, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return MonthParams{}, false, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthParams{}, false, badRequest(fmt.Sprintf("invalid month %q: want YYYY-MM", s))
	}
	return MonthParams{Year: t.Year(), Month: t.Month()}, true, nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest(fmt.Sprintf("invalid id %q", raw))
	}
	return id, nil
}

// parseType accepts all, income or expense; empty means all.
func parseType(s string) (string, error) {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "", "all":
		return "all", nil
	case "income", "expense":
		return s, nil
	default:
		return "", badRequest(fmt.Sprintf("invalid type %q: want all, income or expense", s))
	}
}

// sanitizeInput trims s and removes control characters except tab, newline
// and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
