package coingecko

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

func TestClientListMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "3", r.URL.Query().Get("per_page"))
		_ = json.NewEncoder(w).Encode([]models.CryptoCurrency{{ID: "bitcoin", Symbol: "btc", CurrentPrice: 1}})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	got, err := c.ListMarkets(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bitcoin", got[0].ID)
}

func TestClientHistoricalSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(`{"prices":[[1715000000000,62000.5],[1715003600000,62100]]}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	got, err := c.HistoricalSeries(context.Background(), "bitcoin", 7, "hourly")
	require.NoError(t, err)
	require.Len(t, got.Prices, 2)
	assert.Equal(t, 62000.5, got.Prices[0][1])
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/coins/markets":
			_, _ = w.Write([]byte(`[]`))
		case "/coins/bitcoin":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte(`{not json`))
		}
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	_, err := c.ListMarkets(ctx, 5)
	assert.Error(t, err, "empty listing")

	_, err = c.Details(ctx, "bitcoin")
	assert.Error(t, err, "non-2xx")

	_, err = c.HistoricalSeries(ctx, "ethereum", 1, "hourly")
	assert.Error(t, err, "decode")
}

func TestMockShapes(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	m := NewMock(rand.New(rand.NewSource(1)), func() time.Time { return now })

	coins := m.Markets(20)
	require.Len(t, coins, 5)
	for i, c := range coins {
		mc := mockCoins[i]
		require.NotNil(t, c.SparklineIn7d)
		require.Len(t, c.SparklineIn7d.Price, sparklinePoints)
		for _, p := range c.SparklineIn7d.Price {
			assert.GreaterOrEqual(t, p, mc.min)
			assert.LessOrEqual(t, p, mc.max)
		}
	}
	assert.Len(t, m.Markets(2), 2)

	hist := m.History(2)
	require.Len(t, hist.Prices, 48)
	assert.Equal(t, float64(now.Add(-48*time.Hour).UnixMilli()), hist.Prices[0][0])

	assert.Equal(t, 62453.12, m.Detail("bitcoin").MarketData.CurrentPrice.USD)
	generic := m.Detail("dogecoin")
	assert.Equal(t, "dog", generic.Symbol)
	assert.Equal(t, "Dogecoin", generic.Name)
	assert.GreaterOrEqual(t, generic.MarketData.CurrentPrice.USD, 1000.0)
}
