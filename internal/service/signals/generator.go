package signals

import (
	"strconv"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

const (
	// ProfitBias is the share of pre-seeded completed signals that closed in profit.
	ProfitBias = 0.6

	CompletedPerInstrument = 2
	ActivePerInstrument    = 1

	maxEntryDrift   = 0.05 // completed entries sit within ±5% of the current price
	minLevelOffset  = 0.0005
	maxTargetOffset = 0.10
	maxStopOffset   = 0.05

	minProbability   = 70
	probabilitySpan  = 20
	maxDaysAgo       = 5
	minHoldHours     = 4
	holdHoursSpan    = 24
	minHorizonHours  = 6
	horizonHoursSpan = 48
)

// Random is the generator's source of randomness. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
	Intn(n int) int
}

// InstrumentSource lists instruments in canonical order.
type InstrumentSource interface {
	All() []models.Instrument
}

// Generator synthesizes the initial signal set.
type Generator struct {
	instruments InstrumentSource
	rnd         Random
	now         func() time.Time
}

func NewGenerator(instruments InstrumentSource, rnd Random, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{instruments: instruments, rnd: rnd, now: now}
}

// Generate produces CompletedPerInstrument completed signals followed by
// ActivePerInstrument active ones for every instrument. IDs start at "1".
func (g *Generator) Generate() []models.Signal {
	now := g.now()
	instruments := g.instruments.All()
	out := make([]models.Signal, 0, len(instruments)*(CompletedPerInstrument+ActivePerInstrument))

	counter := 0
	for _, inst := range instruments {
		for i := 0; i < CompletedPerInstrument; i++ {
			counter++
			out = append(out, g.completed(inst, counter, now))
		}
		for i := 0; i < ActivePerInstrument; i++ {
			counter++
			out = append(out, g.active(inst, counter, now))
		}
	}
	return out
}

func (g *Generator) completed(inst models.Instrument, n int, now time.Time) models.Signal {
	dir := g.direction()
	entry := inst.CurrentPrice * (1 + g.rnd.Float64()*2*maxEntryDrift - maxEntryDrift)

	entryTime := now.AddDate(0, 0, -(g.rnd.Intn(maxDaysAgo) + 1))
	exitTime := entryTime.Add(time.Duration(g.rnd.Intn(holdHoursSpan)+minHoldHours) * time.Hour)
	actualExit := exitTime
	if actualExit.After(now) {
		actualExit = now
	}

	sig := g.build(inst, n, dir, entry, entryTime, exitTime)

	outcome := models.Completed{Result: models.ResultProfit, ResultAmount: sig.ProfitPotential, ExitTime: actualExit}
	if g.rnd.Float64() >= ProfitBias {
		outcome.Result = models.ResultLoss
		outcome.ResultAmount = -g.rnd.Float64() * sig.ProfitPotential
	}
	sig.State = outcome
	return sig
}

func (g *Generator) active(inst models.Instrument, n int, now time.Time) models.Signal {
	dir := g.direction()
	exitTime := now.Add(time.Duration(g.rnd.Intn(horizonHoursSpan)+minHorizonHours) * time.Hour)

	sig := g.build(inst, n, dir, inst.CurrentPrice, now, exitTime)
	sig.State = models.Active{}
	return sig
}

func (g *Generator) build(inst models.Instrument, n int, dir models.Direction, entry float64, entryTime, exitTime time.Time) models.Signal {
	targetOff := g.offset(maxTargetOffset)
	stopOff := g.offset(maxStopOffset)

	target, stop := entry*(1+targetOff), entry*(1-stopOff)
	if dir == models.DirectionSell {
		target, stop = entry*(1-targetOff), entry*(1+stopOff)
	}

	return models.Signal{
		ID:               strconv.Itoa(n),
		MarketID:         inst.ID,
		MarketType:       inst.Type,
		AssetName:        inst.Name,
		AssetSymbol:      inst.Symbol,
		Direction:        dir,
		EntryPrice:       entry,
		TargetPrice:      target,
		StopLoss:         stop,
		EntryTime:        entryTime,
		ExpectedExitTime: exitTime,
		Probability:      g.rnd.Intn(probabilitySpan) + minProbability,
		ProfitPotential:  models.ProfitPotential(entry, target),
		RiskReward:       models.RiskReward(entry, target, stop),
		TimeFrame:        models.TimeFrames()[n%3],
		Image:            inst.Image,
	}
}

func (g *Generator) direction() models.Direction {
	if g.rnd.Float64() > 0.5 {
		return models.DirectionBuy
	}
	return models.DirectionSell
}

// offset draws from [minLevelOffset, max], so levels never coincide with entry.
func (g *Generator) offset(max float64) float64 {
	return minLevelOffset + g.rnd.Float64()*(max-minLevelOffset)
}
