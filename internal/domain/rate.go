package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateKey formats a time as the calendar-day key used for rate lookups
// and cache storage (YYYY-MM-DD)
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// BtcUsdRate is a cached historical BTC price in USD for one calendar day.
// Write-once: a day's rate never changes after it has been recorded.
type BtcUsdRate struct {
	Date  time.Time
	Price decimal.Decimal // USD per 1 BTC
}

// FxRate is a cached fiat exchange rate for one calendar day.
// Write-once, same as BtcUsdRate.
type FxRate struct {
	Base  Currency
	Quote Currency
	Date  time.Time
	Rate  decimal.Decimal // quote units per 1 base unit
}
