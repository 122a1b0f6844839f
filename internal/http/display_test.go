package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewDisplaySettings(t *testing.T) {
	d := NewDisplaySettings(" eur ", true)
	assert.Equal(t, "EUR", d.Currency)
	assert.Equal(t, "€", d.Symbol)

	d = NewDisplaySettings("ZZZ", false)
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, "$", d.Symbol)
	assert.False(t, d.ShowTitles)
}

func TestDisplaySettings_Format(t *testing.T) {
	d := NewDisplaySettings("GBP", true)
	assert.Equal(t, "£12.50", d.Format(decimal.RequireFromString("12.5")))
	assert.Equal(t, "-£3.00", d.Format(decimal.RequireFromString("-3")))
	assert.Equal(t, "£0.00", d.Format(decimal.Zero))

	uzs := NewDisplaySettings("UZS", true)
	assert.Equal(t, "UZS 1000.00", uzs.Format(decimal.NewFromInt(1000)))
}

func TestDisplaySettings_ForRequest(t *testing.T) {
	base := NewDisplaySettings("USD", true)

	tests := []struct {
		query      string
		wantCode   string
		wantTitles bool
	}{
		{"", "USD", true},
		{"?currency=jpy", "JPY", true},
		{"?currency=nope", "USD", true},
		{"?titles=off", "USD", false},
		{"?titles=maybe", "USD", true},
		{"?currency=RUB&titles=0", "RUB", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/transactions"+tt.query, nil)
		got := base.forRequest(r)
		assert.Equal(t, tt.wantCode, got.Currency, tt.query)
		assert.Equal(t, tt.wantTitles, got.ShowTitles, tt.query)
	}
	assert.Equal(t, "USD", base.Currency, "base settings must not change")

	off := NewDisplaySettings("USD", false)
	r := httptest.NewRequest(http.MethodGet, "/?titles=true", nil)
	assert.Equal(t, "Home", off.forRequest(r).title("Home"))
	assert.Empty(t, off.title("Home"))
}
