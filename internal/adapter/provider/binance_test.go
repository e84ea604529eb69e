package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
)

func TestBinanceClient_CurrentBtcUsd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ticker/price", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"60123.45000000"}`))
	}))
	defer server.Close()

	client := NewBinanceClient(server.URL)

	price, err := client.CurrentBtcUsd(context.Background())

	assert.NoError(t, err)
	f, _ := price.Float64()
	assert.InDelta(t, 60123.45, f, 0.001)
}

func TestBinanceClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewBinanceClient(server.URL)

	_, err := client.CurrentBtcUsd(context.Background())

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestBinanceClient_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewBinanceClient(server.URL)

	_, err := client.CurrentBtcUsd(context.Background())

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestBinanceClient_NonPositivePrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"0"}`))
	}))
	defer server.Close()

	client := NewBinanceClient(server.URL)

	_, err := client.CurrentBtcUsd(context.Background())

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestBinanceClient_Unreachable(t *testing.T) {
	// Point at a server that has already been shut down
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewBinanceClient(server.URL)

	_, err := client.CurrentBtcUsd(context.Background())

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
