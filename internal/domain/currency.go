package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a supported fiat currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyCHF Currency = "CHF"
	CurrencyJPY Currency = "JPY"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

// Currencies lists every currency the system accepts, in display order
var Currencies = []Currency{
	CurrencyUSD,
	CurrencyEUR,
	CurrencyGBP,
	CurrencyCHF,
	CurrencyJPY,
	CurrencyCAD,
	CurrencyAUD,
}

var currencySymbols = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyGBP: "£",
	CurrencyCHF: "CHF ",
	CurrencyJPY: "¥",
	CurrencyCAD: "C$",
	CurrencyAUD: "A$",
}

// countryCurrencies maps ISO 3166-1 alpha-2 country codes to currencies.
// Countries not listed here fall back to USD.
var countryCurrencies = map[string]Currency{
	"US": CurrencyUSD,
	"GB": CurrencyGBP,
	"EU": CurrencyEUR,
	"DE": CurrencyEUR,
	"FR": CurrencyEUR,
	"IT": CurrencyEUR,
	"ES": CurrencyEUR,
	"NL": CurrencyEUR,
	"BE": CurrencyEUR,
	"AT": CurrencyEUR,
	"PT": CurrencyEUR,
	"IE": CurrencyEUR,
	"FI": CurrencyEUR,
	"GR": CurrencyEUR,
	"CH": CurrencyCHF,
	"JP": CurrencyJPY,
	"CA": CurrencyCAD,
	"AU": CurrencyAUD,
}

// Supported reports whether the currency is one of the accepted codes
func (c Currency) Supported() bool {
	_, ok := currencySymbols[c]
	return ok
}

// Symbol returns the display symbol for the currency
// Falls back to the currency code itself for unknown values
func (c Currency) Symbol() string {
	if symbol, ok := currencySymbols[c]; ok {
		return symbol
	}
	return string(c)
}

// CurrencyForCountry resolves an ISO country code to its currency
// Unknown or empty country codes default to USD
func CurrencyForCountry(countryCode string) Currency {
	if currency, ok := countryCurrencies[strings.ToUpper(countryCode)]; ok {
		return currency
	}
	return CurrencyUSD
}

// FormatAmount renders an amount with its currency symbol, rounded to the
// nearest whole unit with thousand separators (e.g. "$1,234")
func FormatAmount(amount decimal.Decimal, currency Currency) string {
	return currency.Symbol() + groupThousands(amount.Round(0).String())
}

// FormatPercent renders a percentage for display: one decimal place below 10,
// whole numbers with thousand separators from 10 upwards
func FormatPercent(percent decimal.Decimal) string {
	if percent.Abs().LessThan(decimal.NewFromInt(10)) {
		return percent.StringFixed(1)
	}
	return groupThousands(percent.Round(0).String())
}

// groupThousands inserts comma separators into a plain integer string
func groupThousands(s string) string {
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
