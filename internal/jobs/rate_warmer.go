package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
	"github.com/hindsightapp/hindsight-backend/internal/usecase/pricing"
)

// RateWarmer keeps the caches hot so interactive valuation requests rarely
// wait on an upstream provider. Each run refreshes the spot price and, as a
// side effect of resolving every supported currency, pre-fetches yesterday's
// USD-base FX rates into the persistent cache (one Frankfurter call per day,
// then cache hits).
//
// Failures are logged and skipped; the next scheduled run starts from
// scratch. This is not a retry mechanism for user requests.
type RateWarmer struct {
	resolver *pricing.Resolver
	log      zerolog.Logger
}

// NewRateWarmer creates a new rate warmer job
func NewRateWarmer(resolver *pricing.Resolver, log zerolog.Logger) *RateWarmer {
	return &RateWarmer{
		resolver: resolver,
		log:      log.With().Str("job", "rate_warmer").Logger(),
	}
}

// Name returns the job name
func (j *RateWarmer) Name() string {
	return "rate_warmer"
}

// Run refreshes the current rate for every supported currency
func (j *RateWarmer) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, currency := range domain.Currencies {
		if _, err := j.resolver.CurrentRate(ctx, currency); err != nil {
			j.log.Warn().Err(err).Str("currency", string(currency)).Msg("Rate warm-up fetch failed")
		}
	}

	return nil
}
