package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// DisplaySettings controls presentation only: the currency symbol put in
// front of amounts and whether screen titles are sent. Aggregation never
// depends on them.
type DisplaySettings struct {
	Currency   string `json:"currency"`
	Symbol     string `json:"symbol"`
	ShowTitles bool   `json:"show_titles"`
}

// NewDisplaySettings builds the server defaults. Unknown currencies fall
// back to core.DefaultCurrency.
func NewDisplaySettings(currency string, showTitles bool) DisplaySettings {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !core.IsSupportedCurrency(currency) {
		currency = core.DefaultCurrency
	}
	return DisplaySettings{
		Currency:   currency,
		Symbol:     core.CurrencySymbol(currency),
		ShowTitles: showTitles,
	}
}

// forRequest applies the per-request overrides: ?currency=EUR and
// ?titles=false. Invalid overrides are ignored.
func (d DisplaySettings) forRequest(r *http.Request) DisplaySettings {
	q := r.URL.Query()
	if c := strings.ToUpper(strings.TrimSpace(q.Get("currency"))); c != "" && core.IsSupportedCurrency(c) {
		d.Currency = c
		d.Symbol = core.CurrencySymbol(c)
	}
	switch strings.ToLower(q.Get("titles")) {
	case "false", "0", "off":
		d.ShowTitles = false
	case "true", "1", "on":
		d.ShowTitles = true
	}
	return d
}

// Format renders a magnitude with two decimals after the currency symbol.
func (d DisplaySettings) Format(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + d.Symbol + amount.Abs().StringFixed(2)
	}
	return d.Symbol + amount.StringFixed(2)
}

// title returns name when titles are shown.
func (d DisplaySettings) title(name string) string {
	if !d.ShowTitles {
		return ""
	}
	return name
}
