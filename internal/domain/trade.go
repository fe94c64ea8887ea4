package domain

import (
	"fmt"
	"time"
)

// TradeSide is the direction of an executed action.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// TradeReason explains why the simulator acted.
type TradeReason string

const (
	ReasonEntry      TradeReason = "Entry"
	ReasonTakeProfit TradeReason = "TP"
	ReasonStopLoss   TradeReason = "SL"
	ReasonRegime     TradeReason = "Regime"
)

// TradeRecord is one immutable entry of the simulator's trade ledger.
type TradeRecord struct {
	Date   time.Time
	Side   TradeSide
	Symbol string
	Reason TradeReason
	Qty    float64
	Price  float64
	Cash   float64 // cash balance right after the action
}

// Action returns the ledger label, e.g. "BUY TQQQ" or "SELL TQQQ (TP)".
func (t TradeRecord) Action() string {
	if t.Side == SideBuy {
		return fmt.Sprintf("%s %s", t.Side, t.Symbol)
	}
	return fmt.Sprintf("%s %s (%s)", t.Side, t.Symbol, t.Reason)
}

// RunRecord is the persisted summary of one simulation run.
// It is an audit trail only: nothing reads it back to resume a simulation.
type RunRecord struct {
	ID        string
	Mode      string // "baseline" or "swing"
	CreatedAt time.Time
	Bull      string
	Bear      string
	FirstDate time.Time
	LastDate  time.Time
	Params    RunParams
	Stats     Stats
	Trades    []TradeRecord
}

// RunParams captures the parameters a run was executed with.
type RunParams struct {
	InitialCash     float64
	Proximity       float64
	TakeProfit      float64
	StopLoss        float64
	AllowShort      bool
	MaxTradesPerDay int
	WindowYears     int
}
