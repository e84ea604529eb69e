package valuation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
)

// RateResolver supplies the two rates a valuation needs.
// Satisfied by *pricing.Resolver
type RateResolver interface {
	// CurrentRate returns the BTC price in currency right now
	CurrentRate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error)

	// HistoricalRate returns the BTC price in currency as of date
	HistoricalRate(ctx context.Context, date time.Time, currency domain.Currency) (decimal.Decimal, error)
}

// Service computes BTC-equivalent valuations for purchases
type Service struct {
	Resolver RateResolver
}

// NewService creates a new valuation service
func NewService(resolver RateResolver) *Service {
	return &Service{Resolver: resolver}
}

// Compute derives the BTC-equivalent analysis of a purchase: the BTC the
// money would have bought on the purchase date, what that BTC is worth now,
// and the difference.
//
// The input purchase is not mutated. Resolver errors propagate unmodified;
// no partial or estimated valuation is ever returned.
//
// Saved polarity: Saved is true when the difference is negative, i.e. when
// BTC declined relative to the purchase and buying it would have been the
// worse choice. See domain.Valuation.
func (s *Service) Compute(ctx context.Context, purchase *domain.Purchase) (*domain.Valuation, error) {
	historicalRate, err := s.Resolver.HistoricalRate(ctx, purchase.PurchaseDate, purchase.Currency)
	if err != nil {
		return nil, err
	}

	// How much BTC the fiat amount would have bought on the purchase date
	btcAmount := purchase.FiatAmount.Div(historicalRate)

	currentRate, err := s.Resolver.CurrentRate(ctx, purchase.Currency)
	if err != nil {
		return nil, err
	}

	currentValue := btcAmount.Mul(currentRate)
	difference := currentValue.Sub(purchase.FiatAmount)
	percentDiff := difference.Div(purchase.FiatAmount).Mul(decimal.NewFromInt(100))

	return &domain.Valuation{
		Purchase:     *purchase,
		BtcAmount:    btcAmount,
		CurrentValue: currentValue,
		Difference:   difference.Abs(),
		PercentDiff:  percentDiff.Abs(),
		Saved:        difference.IsNegative(),
	}, nil
}
