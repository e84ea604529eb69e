// Package provider contains HTTP clients for the three upstream rate sources:
// Binance (spot BTC/USD), CoinAPI (historical BTC/USD) and Frankfurter
// (historical fiat exchange rates).
//
// All calls are single-shot: a failure is terminal for the request and is
// reported as domain.ErrUpstreamUnavailable with detail attached.
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

// DefaultBinanceURL is the production Binance REST API base URL
const DefaultBinanceURL = "https://api.binance.com/api/v3"

// BinanceClient fetches the current BTC/USD spot price from the Binance
// BTCUSDT ticker. Implements domain.SpotPriceProvider
type BinanceClient struct {
	baseURL string
	client  *http.Client
}

// NewBinanceClient creates a new Binance spot price client
func NewBinanceClient(baseURL string) *BinanceClient {
	if baseURL == "" {
		baseURL = DefaultBinanceURL
	}
	return &BinanceClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// CurrentBtcUsd returns the current BTC price in USD
func (c *BinanceClient) CurrentBtcUsd(ctx context.Context) (decimal.Decimal, error) {
	reqURL := fmt.Sprintf("%s/ticker/price?symbol=BTCUSDT", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: building binance request: %v", domain.ErrUpstreamUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: binance: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: binance http %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	// Binance returns the price as a JSON string, e.g. {"symbol":"BTCUSDT","price":"97123.45000000"}
	var payload struct {
		Price string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decoding binance response: %v", domain.ErrUpstreamUnavailable, err)
	}

	price, err := decimal.NewFromString(payload.Price)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: binance returned invalid price %q", domain.ErrUpstreamUnavailable, payload.Price)
	}

	return price, nil
}
