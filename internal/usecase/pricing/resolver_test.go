package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
)

// MockSpotProvider is a mock implementation of SpotPriceProvider for testing
type MockSpotProvider struct {
	mock.Mock
}

func (m *MockSpotProvider) CurrentBtcUsd(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockHistoricalProvider is a mock implementation of HistoricalPriceProvider for testing
type MockHistoricalProvider struct {
	mock.Mock
}

func (m *MockHistoricalProvider) BtcUsdAt(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockFxProvider is a mock implementation of ExchangeRateProvider for testing
type MockFxProvider struct {
	mock.Mock
}

func (m *MockFxProvider) RatesAt(ctx context.Context, base domain.Currency, date time.Time) (map[domain.Currency]decimal.Decimal, error) {
	args := m.Called(ctx, base, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Currency]decimal.Decimal), args.Error(1)
}

// MockRateCache is a mock implementation of RateCache for testing
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) GetBtcUsdRate(ctx context.Context, date time.Time) (*domain.BtcUsdRate, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BtcUsdRate), args.Error(1)
}

func (m *MockRateCache) PutBtcUsdRate(ctx context.Context, rate *domain.BtcUsdRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRateCache) GetFxRate(ctx context.Context, base, quote domain.Currency, date time.Time) (*domain.FxRate, error) {
	args := m.Called(ctx, base, quote, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FxRate), args.Error(1)
}

func (m *MockRateCache) PutFxRate(ctx context.Context, rate *domain.FxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// newTestResolver wires a resolver with all collaborators mocked and a
// controllable clock
func newTestResolver(spot *MockSpotProvider, historical *MockHistoricalProvider, fx *MockFxProvider, cache *MockRateCache, now func() time.Time) *Resolver {
	r := NewResolver(spot, historical, fx, cache, zerolog.Nop())
	if now != nil {
		r.now = now
		r.spotCache.now = now
	}
	return r
}

func onDay(key string) interface{} {
	return mock.MatchedBy(func(d time.Time) bool {
		return domain.DateKey(d) == key
	})
}

func TestCurrentRate_USD_NoFxLookup(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	spot.On("CurrentBtcUsd", ctx).Return(decimal.NewFromInt(60000), nil)

	// Execute
	rate, err := resolver.CurrentRate(ctx, domain.CurrencyUSD)

	// Assert: spot price returned directly, no FX and no persistent cache involved
	assert.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(60000)))
	fx.AssertNotCalled(t, "RatesAt")
	cache.AssertNotCalled(t, "GetFxRate")
	spot.AssertExpectations(t)
}

func TestCurrentRate_NonUSD_UsesYesterdaysFxRate(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	// Clock pinned to 2024-03-15; yesterday is 2024-03-14
	now := func() time.Time {
		return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
	resolver := newTestResolver(spot, historical, fx, cache, now)

	spot.On("CurrentBtcUsd", ctx).Return(decimal.NewFromInt(60000), nil)
	cache.On("GetFxRate", ctx, domain.CurrencyUSD, domain.CurrencyEUR, onDay("2024-03-14")).Return(nil, nil)
	fx.On("RatesAt", ctx, domain.CurrencyUSD, onDay("2024-03-14")).Return(map[domain.Currency]decimal.Decimal{
		domain.CurrencyEUR: decimal.NewFromFloat(0.9),
	}, nil)
	cache.On("PutFxRate", ctx, mock.MatchedBy(func(r *domain.FxRate) bool {
		return r.Base == domain.CurrencyUSD && r.Quote == domain.CurrencyEUR && domain.DateKey(r.Date) == "2024-03-14"
	})).Return(nil)

	// Execute
	rate, err := resolver.CurrentRate(ctx, domain.CurrencyEUR)

	// Assert: exactly one FX lookup, for yesterday, and spot * fx returned
	assert.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(54000)), "got %s", rate)
	fx.AssertNumberOfCalls(t, "RatesAt", 1)
	spot.AssertExpectations(t)
	fx.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCurrentRate_SpotServedFromMemoryCache(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	spot.On("CurrentBtcUsd", ctx).Return(decimal.NewFromInt(60000), nil).Once()

	// Execute: two reads inside the TTL window
	first, err1 := resolver.CurrentRate(ctx, domain.CurrencyUSD)
	second, err2 := resolver.CurrentRate(ctx, domain.CurrencyUSD)

	// Assert: one upstream call, identical results
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.True(t, first.Equal(second))
	spot.AssertNumberOfCalls(t, "CurrentBtcUsd", 1)
}

func TestCurrentRate_SpotRefetchedAtTTLBoundary(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	current := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	resolver := newTestResolver(spot, historical, fx, cache, func() time.Time { return current })

	spot.On("CurrentBtcUsd", ctx).Return(decimal.NewFromInt(60000), nil)

	// Execute: fetch at T, read just inside the TTL, read at exactly T+TTL
	_, err := resolver.CurrentRate(ctx, domain.CurrencyUSD)
	assert.NoError(t, err)

	current = current.Add(SpotCacheTTL - time.Second)
	_, err = resolver.CurrentRate(ctx, domain.CurrencyUSD)
	assert.NoError(t, err)
	spot.AssertNumberOfCalls(t, "CurrentBtcUsd", 1)

	current = current.Add(time.Second)
	_, err = resolver.CurrentRate(ctx, domain.CurrencyUSD)
	assert.NoError(t, err)

	// Assert: an entry aged exactly TTL is stale
	spot.AssertNumberOfCalls(t, "CurrentBtcUsd", 2)
}

func TestCurrentRate_SpotProviderFailure(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	spot.On("CurrentBtcUsd", ctx).Return(decimal.Zero, domain.ErrUpstreamUnavailable)

	// Execute
	_, err := resolver.CurrentRate(ctx, domain.CurrencyUSD)

	// Assert: propagated unmodified, nothing cached
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	_, ok := resolver.spotCache.Get(spotCacheKey)
	assert.False(t, ok)
}

func TestHistoricalRate_CacheHitSkipsProvider(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	date := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	cache.On("GetBtcUsdRate", ctx, date).Return(&domain.BtcUsdRate{
		Date:  date,
		Price: decimal.NewFromInt(7200),
	}, nil)

	// Execute
	rate, err := resolver.HistoricalRate(ctx, date, domain.CurrencyUSD)

	// Assert
	assert.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(7200)))
	historical.AssertNotCalled(t, "BtcUsdAt")
	cache.AssertNotCalled(t, "PutBtcUsdRate")
}

func TestHistoricalRate_CacheMissWritesThrough(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	date := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	cache.On("GetBtcUsdRate", ctx, date).Return(nil, nil)
	historical.On("BtcUsdAt", ctx, date).Return(decimal.NewFromInt(7200), nil)
	cache.On("PutBtcUsdRate", ctx, mock.MatchedBy(func(r *domain.BtcUsdRate) bool {
		return domain.DateKey(r.Date) == "2020-01-01" && r.Price.Equal(decimal.NewFromInt(7200))
	})).Return(nil)

	// Execute
	rate, err := resolver.HistoricalRate(ctx, date, domain.CurrencyUSD)

	// Assert
	assert.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(7200)))
	historical.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestHistoricalRate_SecondCallIsCacheHit(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	date := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	record := &domain.BtcUsdRate{Date: date, Price: decimal.NewFromInt(7200)}

	// First lookup misses, second finds the written-through record
	cache.On("GetBtcUsdRate", ctx, date).Return(nil, nil).Once()
	cache.On("GetBtcUsdRate", ctx, date).Return(record, nil)
	historical.On("BtcUsdAt", ctx, date).Return(decimal.NewFromInt(7200), nil)
	cache.On("PutBtcUsdRate", ctx, mock.Anything).Return(nil)

	// Execute
	first, err1 := resolver.HistoricalRate(ctx, date, domain.CurrencyUSD)
	second, err2 := resolver.HistoricalRate(ctx, date, domain.CurrencyUSD)

	// Assert: identical results, at most one upstream call per unique key
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.True(t, first.Equal(second))
	historical.AssertNumberOfCalls(t, "BtcUsdAt", 1)
}

func TestHistoricalRate_CacheWriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	date := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	cache.On("GetBtcUsdRate", ctx, date).Return(nil, nil)
	historical.On("BtcUsdAt", ctx, date).Return(decimal.NewFromInt(7200), nil)
	cache.On("PutBtcUsdRate", ctx, mock.Anything).Return(errors.New("store unavailable"))

	// Execute
	rate, err := resolver.HistoricalRate(ctx, date, domain.CurrencyUSD)

	// Assert: the fetched value is returned despite the failed cache write
	assert.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(7200)))
}

func TestHistoricalRate_CacheReadFailureFallsThroughToProvider(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	date := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	cache.On("GetBtcUsdRate", ctx, date).Return(nil, errors.New("store unavailable"))
	historical.On("BtcUsdAt", ctx, date).Return(decimal.NewFromInt(7200), nil)
	cache.On("PutBtcUsdRate", ctx, mock.Anything).Return(nil)

	// Execute
	rate, err := resolver.HistoricalRate(ctx, date, domain.CurrencyUSD)

	// Assert
	assert.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(7200)))
	historical.AssertExpectations(t)
}

func TestHistoricalRate_NonUSDMultipliesByFxRate(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	date := time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC)
	cache.On("GetBtcUsdRate", ctx, date).Return(&domain.BtcUsdRate{Date: date, Price: decimal.NewFromInt(40000)}, nil)
	cache.On("GetFxRate", ctx, domain.CurrencyUSD, domain.CurrencyEUR, date).Return(&domain.FxRate{
		Base:  domain.CurrencyUSD,
		Quote: domain.CurrencyEUR,
		Date:  date,
		Rate:  decimal.NewFromFloat(0.75),
	}, nil)

	// Execute
	rate, err := resolver.HistoricalRate(ctx, date, domain.CurrencyEUR)

	// Assert: 40000 * 0.75, both legs from cache, no upstream calls
	assert.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(30000)))
	historical.AssertNotCalled(t, "BtcUsdAt")
	fx.AssertNotCalled(t, "RatesAt")
}

func TestHistoricalRate_MissingCurrencyInFxResponse(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	date := time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC)
	cache.On("GetBtcUsdRate", ctx, date).Return(&domain.BtcUsdRate{Date: date, Price: decimal.NewFromInt(40000)}, nil)
	cache.On("GetFxRate", ctx, domain.CurrencyUSD, domain.CurrencyCHF, date).Return(nil, nil)
	fx.On("RatesAt", ctx, domain.CurrencyUSD, date).Return(map[domain.Currency]decimal.Decimal{
		domain.CurrencyEUR: decimal.NewFromFloat(0.9),
	}, nil)

	// Execute
	_, err := resolver.HistoricalRate(ctx, date, domain.CurrencyCHF)

	// Assert: unsupported currency surfaces, and the failed lookup is not cached
	assert.ErrorIs(t, err, domain.ErrUnsupportedCurrency)
	cache.AssertNotCalled(t, "PutFxRate")
}

func TestHistoricalRate_UpstreamFailurePropagates(t *testing.T) {
	ctx := context.Background()
	spot := new(MockSpotProvider)
	historical := new(MockHistoricalProvider)
	fx := new(MockFxProvider)
	cache := new(MockRateCache)

	resolver := newTestResolver(spot, historical, fx, cache, nil)

	date := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	cache.On("GetBtcUsdRate", ctx, date).Return(nil, nil)
	historical.On("BtcUsdAt", ctx, date).Return(decimal.Zero, domain.ErrUpstreamUnavailable)

	// Execute
	_, err := resolver.HistoricalRate(ctx, date, domain.CurrencyUSD)

	// Assert
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	cache.AssertNotCalled(t, "PutBtcUsdRate")
}
