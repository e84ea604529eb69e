package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
)

// DefaultFrankfurterURL is the production Frankfurter API base URL
const DefaultFrankfurterURL = "https://api.frankfurter.dev/v1"

// FrankfurterClient fetches historical fiat exchange rates from the
// Frankfurter API. Implements domain.ExchangeRateProvider
type FrankfurterClient struct {
	baseURL string
	client  *http.Client
}

// NewFrankfurterClient creates a new Frankfurter exchange rate client
func NewFrankfurterClient(baseURL string) *FrankfurterClient {
	if baseURL == "" {
		baseURL = DefaultFrankfurterURL
	}
	return &FrankfurterClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// RatesAt returns the exchange rates published for the given calendar day,
// keyed by quote currency. Whether a particular quote currency is present
// is the caller's concern; this client only validates the payload shape.
func (c *FrankfurterClient) RatesAt(ctx context.Context, base domain.Currency, date time.Time) (map[domain.Currency]decimal.Decimal, error) {
	reqURL := fmt.Sprintf("%s/%s?base=%s", c.baseURL, domain.DateKey(date), base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building frankfurter request: %v", domain.ErrUpstreamUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: frankfurter: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: frankfurter http %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding frankfurter response: %v", domain.ErrUpstreamUnavailable, err)
	}

	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: frankfurter returned no rates for %s", domain.ErrUpstreamUnavailable, domain.DateKey(date))
	}

	rates := make(map[domain.Currency]decimal.Decimal, len(payload.Rates))
	for code, rate := range payload.Rates {
		rates[domain.Currency(code)] = decimal.NewFromFloat(rate)
	}

	return rates, nil
}
