package market

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

// MaxMovePercent bounds a single tick's price change in either direction.
const MaxMovePercent = 0.5

// Random is the source of price noise.
type Random interface {
	Float64() float64
}

// Mutator is the only writer of instrument prices.
type Mutator struct {
	registry *Registry
	rnd      Random
}

func NewMutator(registry *Registry, rnd Random) *Mutator {
	return &Mutator{registry: registry, rnd: rnd}
}

// Tick moves every instrument by a random amount within ±MaxMovePercent and
// rounds the result to its precision tier.
func (m *Mutator) Tick() []models.PriceChange {
	var changes []models.PriceChange

	m.registry.update(func(inst *models.Instrument) {
		old := inst.CurrentPrice
		pct := m.rnd.Float64()*2*MaxMovePercent - MaxMovePercent
		next := boundedRound(old, old*(1+pct/100))

		inst.CurrentPrice = next
		changes = append(changes, models.PriceChange{
			MarketType:   inst.Type,
			InstrumentID: inst.ID,
			Old:          old,
			New:          next,
		})
	})

	return changes
}

// PricePrecision returns the decimal places kept for a price of this magnitude.
func PricePrecision(price float64) int32 {
	switch {
	case price > 1000:
		return 2
	case price > 100:
		return 3
	case price > 1:
		return 4
	default:
		return 6
	}
}

// RoundPrice rounds half away from zero to the price's precision tier.
func RoundPrice(price float64) float64 {
	return decimal.NewFromFloat(price).Round(PricePrecision(price)).InexactFloat64()
}

// boundedRound rounds next to its tier. When plain rounding would push the
// move past MaxMovePercent it rounds toward old instead. If the price is too
// small for its tier to honour the bound, or the result is non-positive, old
// is kept.
func boundedRound(old, next float64) float64 {
	places := PricePrecision(next)
	d := decimal.NewFromFloat(next)

	rounded := d.Round(places).InexactFloat64()
	if !withinBound(old, rounded) {
		if next > old {
			rounded = d.RoundFloor(places).InexactFloat64()
		} else {
			rounded = d.RoundCeil(places).InexactFloat64()
		}
	}
	if rounded <= 0 || !withinBound(old, rounded) {
		return old
	}
	return rounded
}

func withinBound(old, next float64) bool {
	return math.Abs(next-old)/old <= MaxMovePercent/100+1e-12
}
