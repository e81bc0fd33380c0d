package coingecko

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

const (
	sparklinePoints = 24
	mockBasePrice   = 60000.0
)

// Random is the mock generator's randomness. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// Mock produces fallback data shaped like the live API.
type Mock struct {
	mu  sync.Mutex
	rnd Random
	now func() time.Time
}

func NewMock(rnd Random, now func() time.Time) *Mock {
	if now == nil {
		now = time.Now
	}
	return &Mock{rnd: rnd, now: now}
}

type mockCoin struct {
	coin     models.CryptoCurrency
	min, max float64
}

var mockCoins = []mockCoin{
	{coin: models.CryptoCurrency{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", Image: "https://assets.coingecko.com/coins/images/1/large/bitcoin.png", CurrentPrice: 62453.12, MarketCap: 1223567890123, MarketCapRank: 1, PriceChangePercentage24h: 2.45}, min: 60000, max: 65000},
	{coin: models.CryptoCurrency{ID: "ethereum", Symbol: "eth", Name: "Ethereum", Image: "https://assets.coingecko.com/coins/images/279/large/ethereum.png", CurrentPrice: 3025.67, MarketCap: 365789012345, MarketCapRank: 2, PriceChangePercentage24h: -1.23}, min: 2800, max: 3200},
	{coin: models.CryptoCurrency{ID: "tether", Symbol: "usdt", Name: "Tether", Image: "https://assets.coingecko.com/coins/images/325/large/Tether.png", CurrentPrice: 1, MarketCap: 95678901234, MarketCapRank: 3, PriceChangePercentage24h: 0.01}, min: 0.99, max: 1.01},
	{coin: models.CryptoCurrency{ID: "binancecoin", Symbol: "bnb", Name: "BNB", Image: "https://assets.coingecko.com/coins/images/825/large/bnb-icon2_2x.png", CurrentPrice: 535.28, MarketCap: 82345678901, MarketCapRank: 4, PriceChangePercentage24h: 3.12}, min: 500, max: 550},
	{coin: models.CryptoCurrency{ID: "solana", Symbol: "sol", Name: "Solana", Image: "https://assets.coingecko.com/coins/images/4128/large/solana.png", CurrentPrice: 124.35, MarketCap: 56712345678, MarketCapRank: 5, PriceChangePercentage24h: 5.78}, min: 115, max: 130},
}

var mockDetails = map[string]models.CryptoDetail{
	"bitcoin": {
		ID: "bitcoin", Symbol: "btc", Name: "Bitcoin",
		MarketData: models.CryptoMarketData{
			CurrentPrice:             models.USDValue{USD: 62453.12},
			PriceChangePercentage24h: 2.45,
			PriceChangePercentage7d:  5.67,
			PriceChangePercentage30d: 12.34,
			MarketCap:                models.USDValue{USD: 1223567890123},
			TotalVolume:              models.USDValue{USD: 45678901234},
			High24h:                  models.USDValue{USD: 63500},
			Low24h:                   models.USDValue{USD: 61200},
		},
	},
	"ethereum": {
		ID: "ethereum", Symbol: "eth", Name: "Ethereum",
		MarketData: models.CryptoMarketData{
			CurrentPrice:             models.USDValue{USD: 3025.67},
			PriceChangePercentage24h: -1.23,
			PriceChangePercentage7d:  3.45,
			PriceChangePercentage30d: -2.34,
			MarketCap:                models.USDValue{USD: 365789012345},
			TotalVolume:              models.USDValue{USD: 23456789012},
			High24h:                  models.USDValue{USD: 3100},
			Low24h:                   models.USDValue{USD: 2950},
		},
	},
}

// Markets returns up to limit mock coins, each with a bounded random-walk sparkline.
func (m *Mock) Markets(limit int) []models.CryptoCurrency {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(mockCoins)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.CryptoCurrency, n)
	for i := 0; i < n; i++ {
		mc := mockCoins[i]
		coin := mc.coin
		coin.SparklineIn7d = &models.Sparkline{Price: m.walk(sparklinePoints, mc.min, mc.max)}
		out[i] = coin
	}
	return out
}

// History returns days×24 hourly points ending now.
func (m *Mock) History(days int) *models.HistoricalData {
	m.mu.Lock()
	defer m.mu.Unlock()

	if days < 1 {
		days = 1
	}
	points := days * 24
	now := m.now()
	prices := make([][2]float64, points)
	for i := 0; i < points; i++ {
		ts := now.Add(-time.Duration(points-i) * time.Hour).UnixMilli()
		price := mockBasePrice * (1 + 0.1*math.Sin(float64(i)/24) + 0.05*m.rnd.Float64())
		prices[i] = [2]float64{float64(ts), price}
	}
	return &models.HistoricalData{Prices: prices}
}

// Detail returns a fixed record for known ids and a randomized one otherwise.
func (m *Mock) Detail(id string) *models.CryptoDetail {
	if d, ok := mockDetails[id]; ok {
		return &d
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	symbol := id
	if len(symbol) > 3 {
		symbol = symbol[:3]
	}
	name := id
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	r := m.rnd.Float64
	return &models.CryptoDetail{
		ID:     id,
		Symbol: symbol,
		Name:   name,
		MarketData: models.CryptoMarketData{
			CurrentPrice:             models.USDValue{USD: 1000 + r()*1000},
			PriceChangePercentage24h: r()*10 - 5,
			PriceChangePercentage7d:  r()*20 - 10,
			PriceChangePercentage30d: r()*30 - 15,
			MarketCap:                models.USDValue{USD: 1e9 + r()*1e10},
			TotalVolume:              models.USDValue{USD: 1e8 + r()*1e9},
			High24h:                  models.USDValue{USD: 1100 + r()*1000},
			Low24h:                   models.USDValue{USD: 900 + r()*1000},
		},
	}
}

// walk is a ±2% random walk kept inside [min, max].
func (m *Mock) walk(count int, min, max float64) []float64 {
	span := max - min
	price := min + m.rnd.Float64()*span
	out := make([]float64, count)
	for i := range out {
		price += price * (m.rnd.Float64()*0.04 - 0.02)
		if price < min {
			price = min + m.rnd.Float64()*span*0.1
		}
		if price > max {
			price = max - m.rnd.Float64()*span*0.1
		}
		out[i] = price
	}
	return out
}
