package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseRepository defines the interface for purchase persistence operations
type PurchaseRepository interface {
	// Create stores a new purchase
	Create(ctx context.Context, purchase *Purchase) error

	// GetByID retrieves a purchase by its ID
	// Returns ErrPurchaseNotFound if no purchase exists with that ID
	GetByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// List retrieves all purchases, newest first
	List(ctx context.Context) ([]*Purchase, error)
}

// RateCache defines the interface for the persistent, shared rate cache.
// Records are write-once per key; Put must be idempotent so that concurrent
// writers racing on the same key converge to the same stored value.
type RateCache interface {
	// GetBtcUsdRate retrieves the cached BTC/USD rate for a calendar day
	// Returns (nil, nil) on a cache miss
	GetBtcUsdRate(ctx context.Context, date time.Time) (*BtcUsdRate, error)

	// PutBtcUsdRate stores a BTC/USD rate for a calendar day
	PutBtcUsdRate(ctx context.Context, rate *BtcUsdRate) error

	// GetFxRate retrieves the cached exchange rate for a currency pair
	// and calendar day. Returns (nil, nil) on a cache miss
	GetFxRate(ctx context.Context, base, quote Currency, date time.Time) (*FxRate, error)

	// PutFxRate stores an exchange rate for a currency pair and calendar day
	PutFxRate(ctx context.Context, rate *FxRate) error
}

// SpotPriceProvider supplies the current BTC price in USD
type SpotPriceProvider interface {
	CurrentBtcUsd(ctx context.Context) (decimal.Decimal, error)
}

// HistoricalPriceProvider supplies the BTC price in USD at a past calendar day
type HistoricalPriceProvider interface {
	BtcUsdAt(ctx context.Context, date time.Time) (decimal.Decimal, error)
}

// ExchangeRateProvider supplies fiat exchange rates for a base currency at a
// past calendar day, as a mapping from quote currency to rate
type ExchangeRateProvider interface {
	RatesAt(ctx context.Context, base Currency, date time.Time) (map[Currency]decimal.Decimal, error)
}
