package models

import (
	"encoding/json"
	"math"
	"time"
)

type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

type TimeFrame string

const (
	TimeFrameShort  TimeFrame = "short"
	TimeFrameMedium TimeFrame = "medium"
	TimeFrameLong   TimeFrame = "long"
)

// TimeFrames returns the round-robin order used when assigning timeframes.
func TimeFrames() []TimeFrame {
	return []TimeFrame{TimeFrameShort, TimeFrameMedium, TimeFrameLong}
}

// Valid reports whether tf is a known timeframe.
func (tf TimeFrame) Valid() bool {
	switch tf {
	case TimeFrameShort, TimeFrameMedium, TimeFrameLong:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	// StatusInvalidated is reserved; no transition produces it.
	StatusInvalidated Status = "invalidated"
)

type Result string

const (
	ResultProfit Result = "profit"
	ResultLoss   Result = "loss"
)

// State is the lifecycle variant of a signal. Completed-only data lives on
// Completed, so an active signal cannot carry a result.
type State interface {
	Status() Status
	isState()
}

// Active is the state of an open signal.
type Active struct{}

func (Active) Status() Status { return StatusActive }
func (Active) isState()       {}

// Completed is terminal.
type Completed struct {
	Result       Result
	ResultAmount float64 // signed percentage
	ExitTime     time.Time
}

func (Completed) Status() Status { return StatusCompleted }
func (Completed) isState()       {}

// Signal is a synthesized buy/sell recommendation.
type Signal struct {
	ID               string
	MarketID         string
	MarketType       MarketType
	AssetName        string
	AssetSymbol      string
	Direction        Direction
	EntryPrice       float64
	TargetPrice      float64
	StopLoss         float64
	EntryTime        time.Time
	ExpectedExitTime time.Time
	Probability      int
	ProfitPotential  float64
	RiskReward       float64
	TimeFrame        TimeFrame
	Image            string
	State            State
}

// Status returns the signal status; a nil state counts as active.
func (s Signal) Status() Status {
	if s.State == nil {
		return StatusActive
	}
	return s.State.Status()
}

// Outcome returns the completed state, if any.
func (s Signal) Outcome() (Completed, bool) {
	c, ok := s.State.(Completed)
	return c, ok
}

// ProfitPotential is the percentage distance from entry to target.
func ProfitPotential(entry, target float64) float64 {
	return math.Abs(target-entry) / entry * 100
}

// RiskReward is the distance to target over the distance to stop-loss.
func RiskReward(entry, target, stop float64) float64 {
	return math.Abs(target-entry) / math.Abs(stop-entry)
}

// LossAmount is the signed percentage lost when the stop-loss is hit.
func LossAmount(entry, stop float64) float64 {
	return -math.Abs((entry - stop) / entry * 100)
}

type signalJSON struct {
	ID               string     `json:"id"`
	MarketID         string     `json:"marketId"`
	MarketType       MarketType `json:"marketType"`
	AssetName        string     `json:"assetName"`
	AssetSymbol      string     `json:"assetSymbol"`
	Direction        Direction  `json:"direction"`
	EntryPrice       float64    `json:"entryPrice"`
	TargetPrice      float64    `json:"targetPrice"`
	StopLoss         float64    `json:"stopLoss"`
	EntryTime        time.Time  `json:"entryTime"`
	ExpectedExitTime time.Time  `json:"expectedExitTime"`
	ActualExitTime   *time.Time `json:"actualExitTime,omitempty"`
	Probability      int        `json:"probability"`
	Status           Status     `json:"status"`
	ProfitPotential  float64    `json:"profitPotential"`
	RiskReward       float64    `json:"riskReward"`
	TimeFrame        TimeFrame  `json:"timeFrame"`
	Image            string     `json:"image,omitempty"`
	Result           *Result    `json:"result,omitempty"`
	ResultAmount     *float64   `json:"resultAmount,omitempty"`
}

// MarshalJSON flattens the lifecycle state into the dashboard wire shape.
func (s Signal) MarshalJSON() ([]byte, error) {
	v := signalJSON{
		ID:               s.ID,
		MarketID:         s.MarketID,
		MarketType:       s.MarketType,
		AssetName:        s.AssetName,
		AssetSymbol:      s.AssetSymbol,
		Direction:        s.Direction,
		EntryPrice:       s.EntryPrice,
		TargetPrice:      s.TargetPrice,
		StopLoss:         s.StopLoss,
		EntryTime:        s.EntryTime,
		ExpectedExitTime: s.ExpectedExitTime,
		Probability:      s.Probability,
		Status:           s.Status(),
		ProfitPotential:  math.Round(s.ProfitPotential*100) / 100,
		RiskReward:       math.Round(s.RiskReward*100) / 100,
		TimeFrame:        s.TimeFrame,
		Image:            s.Image,
	}
	if c, ok := s.Outcome(); ok {
		exit, result, amount := c.ExitTime, c.Result, c.ResultAmount
		v.ActualExitTime = &exit
		v.Result = &result
		v.ResultAmount = &amount
	}
	return json.Marshal(v)
}

// UnmarshalJSON restores the lifecycle state from the wire shape. A payload
// carrying a result decodes as Completed.
func (s *Signal) UnmarshalJSON(b []byte) error {
	var v signalJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Signal{
		ID:               v.ID,
		MarketID:         v.MarketID,
		MarketType:       v.MarketType,
		AssetName:        v.AssetName,
		AssetSymbol:      v.AssetSymbol,
		Direction:        v.Direction,
		EntryPrice:       v.EntryPrice,
		TargetPrice:      v.TargetPrice,
		StopLoss:         v.StopLoss,
		EntryTime:        v.EntryTime,
		ExpectedExitTime: v.ExpectedExitTime,
		Probability:      v.Probability,
		ProfitPotential:  v.ProfitPotential,
		RiskReward:       v.RiskReward,
		TimeFrame:        v.TimeFrame,
		Image:            v.Image,
		State:            Active{},
	}
	if v.Result != nil {
		c := Completed{Result: *v.Result}
		if v.ResultAmount != nil {
			c.ResultAmount = *v.ResultAmount
		}
		if v.ActualExitTime != nil {
			c.ExitTime = *v.ActualExitTime
		}
		s.State = c
	}
	return nil
}

// Transition is a signal that completed during a tick, with the price that triggered it.
type Transition struct {
	Signal Signal
	Price  float64
}
