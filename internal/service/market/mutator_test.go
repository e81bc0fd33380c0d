package market

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

type fixedRandom struct{ v float64 }

func (f fixedRandom) Float64() float64 { return f.v }

func TestPricePrecisionTiers(t *testing.T) {
	assert.Equal(t, int32(2), PricePrecision(62453.12))
	assert.Equal(t, int32(3), PricePrecision(143.26))
	assert.Equal(t, int32(4), PricePrecision(27.32))
	assert.Equal(t, int32(6), PricePrecision(0.457))
	assert.Equal(t, int32(6), PricePrecision(1))
	assert.Equal(t, int32(4), PricePrecision(100))
	assert.Equal(t, int32(3), PricePrecision(1000))
}

func TestRoundPrice(t *testing.T) {
	assert.Equal(t, 62453.13, RoundPrice(62453.1256))
	assert.Equal(t, 143.257, RoundPrice(143.2566))
	assert.Equal(t, 1.0893, RoundPrice(1.08925))
	assert.Equal(t, 0.457123, RoundPrice(0.4571234))
}

func TestMutatorStaysWithinBound(t *testing.T) {
	r := NewDefaultRegistry()
	m := NewMutator(r, rand.New(rand.NewSource(7)))

	for tick := 0; tick < 2000; tick++ {
		changes := m.Tick()
		require.Len(t, changes, 15)
		for _, c := range changes {
			require.Greater(t, c.New, 0.0, "%s tick %d", c.InstrumentID, tick)
			move := math.Abs(c.New-c.Old) / c.Old
			require.LessOrEqual(t, move, MaxMovePercent/100+1e-9, "%s tick %d: %v -> %v", c.InstrumentID, tick, c.Old, c.New)
		}
	}
}

func TestMutatorWritesRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	// 1.0 maps to the upper edge of the move range.
	m := NewMutator(r, fixedRandom{v: 1})

	changes := m.Tick()

	btc, err := r.GetByID(models.MarketCrypto, "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, changes[0].New, btc.CurrentPrice)
	assert.Greater(t, btc.CurrentPrice, 62453.12)
	assert.LessOrEqual(t, btc.CurrentPrice, 62453.12*1.005)
}

func TestMutatorRoundsTowardOldAtEdge(t *testing.T) {
	// 0.457 * 1.005 = 0.459285 exactly at 6dp, so the move stays at the bound.
	got := boundedRound(0.457, 0.457*1.005)
	assert.LessOrEqual(t, math.Abs(got-0.457)/0.457, 0.005+1e-12)

	// 2000.005 +0.5% = 2010.005025; half-up to 2dp would overshoot the bound.
	old := 2000.005
	got = boundedRound(old, old*1.005)
	assert.Equal(t, 2010.0, got)
}

func TestBoundedRoundKeepsPositive(t *testing.T) {
	assert.Equal(t, 0.0000004, boundedRound(0.0000004, 0.0000004*0.995))
}
