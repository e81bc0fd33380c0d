package repository

import (
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

// outcomeRow is the flattened journal record of a completed signal.
type outcomeRow struct {
	SignalID     string
	MarketType   string
	MarketID     string
	Symbol       string
	Direction    string
	TimeFrame    string
	EntryPrice   float64
	TargetPrice  float64
	StopLoss     float64
	ExitPrice    float64
	Result       string
	ResultAmount float64
	EntryTime    time.Time
	ExitTime     time.Time
}

func newOutcomeRow(t models.Transition) (outcomeRow, bool) {
	outcome, done := t.Signal.Outcome()
	if !done {
		return outcomeRow{}, false
	}
	s := t.Signal
	return outcomeRow{
		SignalID:     s.ID,
		MarketType:   string(s.MarketType),
		MarketID:     s.MarketID,
		Symbol:       s.AssetSymbol,
		Direction:    string(s.Direction),
		TimeFrame:    string(s.TimeFrame),
		EntryPrice:   s.EntryPrice,
		TargetPrice:  s.TargetPrice,
		StopLoss:     s.StopLoss,
		ExitPrice:    t.Price,
		Result:       string(outcome.Result),
		ResultAmount: outcome.ResultAmount,
		EntryTime:    s.EntryTime.UTC(),
		ExitTime:     outcome.ExitTime.UTC(),
	}, true
}

func (r outcomeRow) args() []interface{} {
	return []interface{}{
		r.SignalID, r.MarketType, r.MarketID, r.Symbol, r.Direction, r.TimeFrame,
		r.EntryPrice, r.TargetPrice, r.StopLoss, r.ExitPrice,
		r.Result, r.ResultAmount, r.EntryTime, r.ExitTime,
	}
}

const outcomeColumns = "signal_id, market_type, market_id, symbol, direction, time_frame, entry_price, target_price, stop_loss, exit_price, result, result_amount, entry_time, exit_time"

const outcomePlaceholders = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
