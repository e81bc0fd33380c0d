package models

// CryptoCurrency is one row of the market-data provider's listing.
type CryptoCurrency struct {
	ID                                string     `json:"id"`
	Symbol                            string     `json:"symbol"`
	Name                              string     `json:"name"`
	Image                             string     `json:"image"`
	CurrentPrice                      float64    `json:"current_price"`
	MarketCap                         float64    `json:"market_cap"`
	MarketCapRank                     int        `json:"market_cap_rank"`
	PriceChangePercentage24h          float64    `json:"price_change_percentage_24h"`
	PriceChangePercentage7dInCurrency *float64   `json:"price_change_percentage_7d_in_currency,omitempty"`
	SparklineIn7d                     *Sparkline `json:"sparkline_in_7d,omitempty"`
}

type Sparkline struct {
	Price []float64 `json:"price"`
}

// USDValue mirrors the provider's per-currency objects; only usd is read.
type USDValue struct {
	USD float64 `json:"usd"`
}

type CryptoMarketData struct {
	CurrentPrice             USDValue `json:"current_price"`
	PriceChangePercentage24h float64  `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  float64  `json:"price_change_percentage_7d"`
	PriceChangePercentage30d float64  `json:"price_change_percentage_30d"`
	MarketCap                USDValue `json:"market_cap"`
	TotalVolume              USDValue `json:"total_volume"`
	High24h                  USDValue `json:"high_24h"`
	Low24h                   USDValue `json:"low_24h"`
}

// CryptoDetail is the extended record returned for a single coin.
type CryptoDetail struct {
	ID         string           `json:"id"`
	Symbol     string           `json:"symbol"`
	Name       string           `json:"name"`
	MarketData CryptoMarketData `json:"market_data"`
}

// HistoricalData holds [timestamp_ms, price] pairs.
type HistoricalData struct {
	Prices [][2]float64 `json:"prices"`
}
