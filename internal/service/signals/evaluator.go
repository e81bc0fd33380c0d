package signals

import (
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	applogger "github.com/winnervic367/trading-analyser/pkg/logger"
)

// PriceSource resolves an instrument's current price.
type PriceSource interface {
	GetByID(t models.MarketType, id string) (models.Instrument, error)
}

// Evaluator drives active signals to completion when price crosses target or
// stop-loss. It is the only writer of signal state.
type Evaluator struct {
	store  *Store
	prices PriceSource
	logger *applogger.Logger
}

func NewEvaluator(store *Store, prices PriceSource, logger *applogger.Logger) *Evaluator {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &Evaluator{store: store, prices: prices, logger: logger}
}

// Evaluate checks every active signal once and returns those that completed.
// A signal whose instrument cannot be resolved is skipped until the next call.
// Nothing is evaluated while the store is empty.
func (e *Evaluator) Evaluate(now time.Time) []models.Transition {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	if !e.store.loaded {
		return nil
	}

	var out []models.Transition
	for _, sig := range e.store.signals {
		if sig.Status() != models.StatusActive {
			continue
		}

		inst, err := e.prices.GetByID(sig.MarketType, sig.MarketID)
		if err != nil {
			e.logger.Debug("signal skipped: instrument unavailable",
				applogger.String("signal_id", sig.ID),
				applogger.String("market_id", sig.MarketID),
				applogger.Error(err),
			)
			continue
		}

		outcome, done := Decide(*sig, inst.CurrentPrice, now)
		if !done {
			continue
		}
		sig.State = outcome
		out = append(out, models.Transition{Signal: *sig, Price: inst.CurrentPrice})
	}
	return out
}

// Decide applies the target/stop-loss rule to an active signal at price.
func Decide(sig models.Signal, price float64, now time.Time) (models.Completed, bool) {
	var hitTarget, hitStop bool
	switch sig.Direction {
	case models.DirectionBuy:
		hitTarget = price >= sig.TargetPrice
		hitStop = price <= sig.StopLoss
	case models.DirectionSell:
		hitTarget = price <= sig.TargetPrice
		hitStop = price >= sig.StopLoss
	default:
		return models.Completed{}, false
	}

	switch {
	case hitTarget:
		return models.Completed{Result: models.ResultProfit, ResultAmount: sig.ProfitPotential, ExitTime: now}, true
	case hitStop:
		return models.Completed{Result: models.ResultLoss, ResultAmount: models.LossAmount(sig.EntryPrice, sig.StopLoss), ExitTime: now}, true
	default:
		return models.Completed{}, false
	}
}
