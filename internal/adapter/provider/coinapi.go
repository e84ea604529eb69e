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

// DefaultCoinAPIURL is the production CoinAPI historical exchange rates base URL
const DefaultCoinAPIURL = "https://api-historical.exrates.coinapi.io/v1"

// CoinAPIClient fetches historical BTC/USD rates from CoinAPI.
// Implements domain.HistoricalPriceProvider
type CoinAPIClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewCoinAPIClient creates a new CoinAPI historical price client
func NewCoinAPIClient(baseURL, apiKey string) *CoinAPIClient {
	if baseURL == "" {
		baseURL = DefaultCoinAPIURL
	}
	return &CoinAPIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// BtcUsdAt returns the BTC price in USD at the given calendar day.
// The rate is requested at a fixed mid-day timestamp so that the same date
// always resolves to the same provider-side observation.
func (c *CoinAPIClient) BtcUsdAt(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	timestamp := domain.DateKey(date) + "T12:00:00.0000000Z"
	reqURL := fmt.Sprintf("%s/exchangerate/BTC/USD?time=%s", c.baseURL, timestamp)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: building coinapi request: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CoinAPI-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: coinapi: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	// CoinAPI answers 4xx for dates it has no data for; either way the
	// valuation cannot proceed, so both map to the same error.
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: coinapi http %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload struct {
		Rate float64 `json:"rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decoding coinapi response: %v", domain.ErrUpstreamUnavailable, err)
	}

	if payload.Rate <= 0 {
		return decimal.Zero, fmt.Errorf("%w: coinapi returned invalid rate %f", domain.ErrUpstreamUnavailable, payload.Rate)
	}

	return decimal.NewFromFloat(payload.Rate), nil
}
