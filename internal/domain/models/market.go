package models

// MarketType partitions instruments in the registry.
type MarketType string

const (
	MarketCrypto      MarketType = "crypto"
	MarketForex       MarketType = "forex"
	MarketCommodities MarketType = "commodities"
)

// MarketTypes returns all market types in canonical order.
func MarketTypes() []MarketType {
	return []MarketType{MarketCrypto, MarketForex, MarketCommodities}
}

// Valid reports whether t is a known market type.
func (t MarketType) Valid() bool {
	switch t {
	case MarketCrypto, MarketForex, MarketCommodities:
		return true
	default:
		return false
	}
}

// Instrument is a tradable asset or pair with a simulated current price.
type Instrument struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Symbol       string     `json:"symbol"`
	Type         MarketType `json:"type"`
	CurrentPrice float64    `json:"currentPrice"`
	Image        string     `json:"image,omitempty"`
}

// PriceChange records one instrument's move during a tick.
type PriceChange struct {
	MarketType   MarketType
	InstrumentID string
	Old          float64
	New          float64
}
