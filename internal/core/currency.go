package core

// DefaultCurrency is used when no currency has been selected.
const DefaultCurrency = "USD"

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"RUB": "₽",
	"UZS": "UZS ",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
}

// SupportedCurrencies lists the selectable currency codes in display order.
func SupportedCurrencies() []string {
	return []string{"USD", "EUR", "RUB", "UZS", "GBP", "JPY", "CNY"}
}

// CurrencySymbol returns the display symbol for a currency code. Unknown
// codes fall back to the dollar sign.
func CurrencySymbol(code string) string {
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return "$"
}

// IsSupportedCurrency reports whether code has a known symbol.
func IsSupportedCurrency(code string) bool {
	_, ok := currencySymbols[code]
	return ok
}
