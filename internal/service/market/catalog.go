package market

import "github.com/winnervic367/trading-analyser/internal/domain/models"

const iconBase = "https://assets.coingecko.com/coins/images"

// DefaultInstruments returns the seeded instrument set in canonical order.
func DefaultInstruments() []models.Instrument {
	return []models.Instrument{
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC/USDT", Type: models.MarketCrypto, CurrentPrice: 62453.12, Image: iconBase + "/1/large/bitcoin.png"},
		{ID: "ethereum", Name: "Ethereum", Symbol: "ETH/USDT", Type: models.MarketCrypto, CurrentPrice: 3124.87, Image: iconBase + "/279/large/ethereum.png"},
		{ID: "solana", Name: "Solana", Symbol: "SOL/USDT", Type: models.MarketCrypto, CurrentPrice: 143.26, Image: iconBase + "/4128/large/solana.png"},
		{ID: "cardano", Name: "Cardano", Symbol: "ADA/USDT", Type: models.MarketCrypto, CurrentPrice: 0.457, Image: iconBase + "/975/large/cardano.png"},
		{ID: "binancecoin", Name: "BNB", Symbol: "BNB/USDT", Type: models.MarketCrypto, CurrentPrice: 567.32, Image: iconBase + "/825/large/binance-coin-logo.png"},

		{ID: "eurusd", Name: "EUR/USD", Symbol: "EUR/USD", Type: models.MarketForex, CurrentPrice: 1.0892},
		{ID: "gbpusd", Name: "GBP/USD", Symbol: "GBP/USD", Type: models.MarketForex, CurrentPrice: 1.2734},
		{ID: "usdjpy", Name: "USD/JPY", Symbol: "USD/JPY", Type: models.MarketForex, CurrentPrice: 155.75},
		{ID: "audusd", Name: "AUD/USD", Symbol: "AUD/USD", Type: models.MarketForex, CurrentPrice: 0.6615},
		{ID: "usdcad", Name: "USD/CAD", Symbol: "USD/CAD", Type: models.MarketForex, CurrentPrice: 1.3642},

		{ID: "gold", Name: "Gold", Symbol: "XAU/USD", Type: models.MarketCommodities, CurrentPrice: 2337.45},
		{ID: "silver", Name: "Silver", Symbol: "XAG/USD", Type: models.MarketCommodities, CurrentPrice: 27.32},
		{ID: "oil", Name: "Crude Oil", Symbol: "CL/USD", Type: models.MarketCommodities, CurrentPrice: 78.45},
		{ID: "natgas", Name: "Natural Gas", Symbol: "NG/USD", Type: models.MarketCommodities, CurrentPrice: 1.94},
		{ID: "copper", Name: "Copper", Symbol: "HG/USD", Type: models.MarketCommodities, CurrentPrice: 4.22},
	}
}
