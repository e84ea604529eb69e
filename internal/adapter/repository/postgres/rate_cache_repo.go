package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
)

// rateCacheRepository implements domain.RateCache on top of postgres.
// Historical rates are immutable, so writes use ON CONFLICT DO NOTHING:
// concurrent writers racing on the same day converge on whichever value
// landed first, and a duplicate fetch is wasted work rather than a bug.
type rateCacheRepository struct {
	db *DB
}

// NewRateCacheRepository creates a new persistent rate cache
func NewRateCacheRepository(db *DB) domain.RateCache {
	return &rateCacheRepository{db: db}
}

// GetBtcUsdRate retrieves the cached BTC/USD rate for a calendar day
// Returns (nil, nil) on a cache miss
func (r *rateCacheRepository) GetBtcUsdRate(ctx context.Context, date time.Time) (*domain.BtcUsdRate, error) {
	query := `
		SELECT price
		FROM btc_usd_rates
		WHERE date = $1
	`

	var priceStr string
	err := r.db.QueryRowContext(ctx, query, domain.DateKey(date)).Scan(&priceStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get BTC/USD rate: %w", err)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cached BTC/USD price: %w", err)
	}

	return &domain.BtcUsdRate{Date: date, Price: price}, nil
}

// PutBtcUsdRate stores a BTC/USD rate for a calendar day (idempotent)
func (r *rateCacheRepository) PutBtcUsdRate(ctx context.Context, rate *domain.BtcUsdRate) error {
	query := `
		INSERT INTO btc_usd_rates (date, price)
		VALUES ($1, $2)
		ON CONFLICT (date) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, domain.DateKey(rate.Date), rate.Price.String())
	if err != nil {
		return fmt.Errorf("failed to cache BTC/USD rate: %w", err)
	}

	return nil
}

// GetFxRate retrieves the cached exchange rate for a currency pair and
// calendar day. Returns (nil, nil) on a cache miss
func (r *rateCacheRepository) GetFxRate(ctx context.Context, base, quote domain.Currency, date time.Time) (*domain.FxRate, error) {
	query := `
		SELECT rate
		FROM fx_rates
		WHERE base = $1 AND quote = $2 AND date = $3
	`

	var rateStr string
	err := r.db.QueryRowContext(ctx, query, string(base), string(quote), domain.DateKey(date)).Scan(&rateStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get FX rate: %w", err)
	}

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cached FX rate: %w", err)
	}

	return &domain.FxRate{Base: base, Quote: quote, Date: date, Rate: rate}, nil
}

// PutFxRate stores an exchange rate for a currency pair and calendar day (idempotent)
func (r *rateCacheRepository) PutFxRate(ctx context.Context, rate *domain.FxRate) error {
	query := `
		INSERT INTO fx_rates (base, quote, date, rate)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (base, quote, date) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		string(rate.Base),
		string(rate.Quote),
		domain.DateKey(rate.Date),
		rate.Rate.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache FX rate: %w", err)
	}

	return nil
}
