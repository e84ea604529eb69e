package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
)

const (
	// SpotCacheTTL bounds how long a live BTC/USD price is served from memory
	SpotCacheTTL = 5 * time.Minute

	// spotCacheKey is the single memory-cache key; only one spot metric is tracked
	spotCacheKey = "current-btcusd"
)

// Resolver answers "BTC price in currency X right now" and "BTC price in
// currency X on day D" by orchestrating the three upstream providers behind
// a two-tier cache: an in-process TTL cache for the spot price and the
// persistent RateCache for immutable historical rates.
//
// Non-USD prices are always routed through USD; there is no direct
// conversion between two non-USD currencies.
type Resolver struct {
	spot       domain.SpotPriceProvider
	historical domain.HistoricalPriceProvider
	fx         domain.ExchangeRateProvider
	rateCache  domain.RateCache
	spotCache  *SpotCache
	log        zerolog.Logger
	now        func() time.Time
}

// NewResolver creates a new price resolver
func NewResolver(
	spot domain.SpotPriceProvider,
	historical domain.HistoricalPriceProvider,
	fx domain.ExchangeRateProvider,
	rateCache domain.RateCache,
	log zerolog.Logger,
) *Resolver {
	return &Resolver{
		spot:       spot,
		historical: historical,
		fx:         fx,
		rateCache:  rateCache,
		spotCache:  NewSpotCache(SpotCacheTTL),
		log:        log.With().Str("component", "pricing").Logger(),
		now:        time.Now,
	}
}

// CurrentRate returns the current BTC price denominated in currency.
//
// For non-USD currencies the spot USD price is converted using yesterday's
// exchange rate: today's rate may not have been published yet, so yesterday
// is the latest day guaranteed to exist. This is deliberate policy, not an
// off-by-one.
func (r *Resolver) CurrentRate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	btcUsd, err := r.currentBtcUsd(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if currency == domain.CurrencyUSD {
		return btcUsd, nil
	}

	yesterday := r.now().AddDate(0, 0, -1)
	rate, err := r.fxRate(ctx, currency, yesterday)
	if err != nil {
		return decimal.Zero, err
	}

	return btcUsd.Mul(rate), nil
}

// HistoricalRate returns the BTC price denominated in currency as of date
func (r *Resolver) HistoricalRate(ctx context.Context, date time.Time, currency domain.Currency) (decimal.Decimal, error) {
	btcUsd, err := r.historicalBtcUsd(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}

	if currency == domain.CurrencyUSD {
		return btcUsd, nil
	}

	rate, err := r.fxRate(ctx, currency, date)
	if err != nil {
		return decimal.Zero, err
	}

	return btcUsd.Mul(rate), nil
}

// currentBtcUsd returns the live BTC/USD price, serving from the memory
// cache while the entry is fresh
func (r *Resolver) currentBtcUsd(ctx context.Context) (decimal.Decimal, error) {
	if price, ok := r.spotCache.Get(spotCacheKey); ok {
		return price, nil
	}

	price, err := r.spot.CurrentBtcUsd(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	r.spotCache.Set(spotCacheKey, price)
	return price, nil
}

// historicalBtcUsd resolves the BTC/USD rate for a calendar day through the
// persistent cache, writing through on a miss
func (r *Resolver) historicalBtcUsd(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	cached, err := r.rateCache.GetBtcUsdRate(ctx, date)
	if err != nil {
		// A cache read failure must not abort the price fetch; fall
		// through to the provider
		r.log.Warn().Err(err).Str("date", domain.DateKey(date)).Msg("BTC/USD cache read failed")
	}
	if cached != nil {
		return cached.Price, nil
	}

	price, err := r.historical.BtcUsdAt(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}

	record := &domain.BtcUsdRate{Date: date, Price: price}
	if err := r.rateCache.PutBtcUsdRate(ctx, record); err != nil {
		// Caching is an optimization, not a correctness dependency:
		// the authoritative value is already in hand
		r.log.Warn().Err(err).Str("date", domain.DateKey(date)).Msg("BTC/USD cache write failed")
	}

	return price, nil
}

// fxRate resolves the USD -> quote exchange rate for a calendar day through
// the persistent cache, writing through on a miss
func (r *Resolver) fxRate(ctx context.Context, quote domain.Currency, date time.Time) (decimal.Decimal, error) {
	cached, err := r.rateCache.GetFxRate(ctx, domain.CurrencyUSD, quote, date)
	if err != nil {
		r.log.Warn().Err(err).Str("quote", string(quote)).Str("date", domain.DateKey(date)).Msg("FX cache read failed")
	}
	if cached != nil {
		return cached.Rate, nil
	}

	rates, err := r.fx.RatesAt(ctx, domain.CurrencyUSD, date)
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := rates[quote]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s not present in FX rates for %s",
			domain.ErrUnsupportedCurrency, quote, domain.DateKey(date))
	}

	record := &domain.FxRate{Base: domain.CurrencyUSD, Quote: quote, Date: date, Rate: rate}
	if err := r.rateCache.PutFxRate(ctx, record); err != nil {
		r.log.Warn().Err(err).Str("quote", string(quote)).Str("date", domain.DateKey(date)).Msg("FX cache write failed")
	}

	return rate, nil
}
