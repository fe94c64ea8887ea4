package domain

import "time"

// Holding identifies which instrument, if any, the position is in.
type Holding int

const (
	HoldingNone Holding = iota
	HoldingBull
	HoldingBear
)

// String implements fmt.Stringer.
func (h Holding) String() string {
	switch h {
	case HoldingBull:
		return "bull"
	case HoldingBear:
		return "bear"
	default:
		return "none"
	}
}

// direction is the regime a holding is aligned with.
func (h Holding) direction() Regime {
	switch h {
	case HoldingBull:
		return RegimeUp
	case HoldingBear:
		return RegimeDown
	default:
		return RegimeFlat
	}
}

// PositionState is the simulator's full-notional account.
// At most one of BullShares/BearShares is non-zero, and Cash is zero whenever a
// position is open.
type PositionState struct {
	Cash       float64
	BullShares float64
	BearShares float64
	Held       Holding
	EntryPrice float64
}

// NewPositionState returns a flat account holding only cash.
func NewPositionState(cash float64) PositionState {
	return PositionState{Cash: cash}
}

// Shares returns the share count of the current holding.
func (s PositionState) Shares() float64 {
	switch s.Held {
	case HoldingBull:
		return s.BullShares
	case HoldingBear:
		return s.BearShares
	default:
		return 0
	}
}

// Equity marks the account to market. Missing prices must be passed as 0.
func (s PositionState) Equity(bullPx, bearPx float64) float64 {
	return s.Cash + s.BullShares*bullPx + s.BearShares*bearPx
}

// Day is everything the step function needs to know about one trading day.
type Day struct {
	Date    time.Time
	Bull    string
	Bear    string
	BullPx  float64 // 0 when missing
	BearPx  float64 // 0 when missing
	Desired Regime
}

func (d Day) price(h Holding) float64 {
	switch h {
	case HoldingBull:
		return d.BullPx
	case HoldingBear:
		return d.BearPx
	default:
		return 0
	}
}

func (d Day) symbol(h Holding) string {
	switch h {
	case HoldingBull:
		return d.Bull
	case HoldingBear:
		return d.Bear
	default:
		return ""
	}
}

// ExitRule closes an open position when Match returns true.
type ExitRule struct {
	Reason TradeReason
	Match  func(pnl float64, desired Regime, held Holding) bool
}

// StepRules are the per-day trading rules. Exits are evaluated in slice order and
// the first matching rule wins.
type StepRules struct {
	Exits           []ExitRule
	AllowShort      bool
	MaxTradesPerDay int
}

// NewStepRules builds the standard exit priority: take-profit, then stop-loss,
// then regime reversal.
func NewStepRules(takeProfit, stopLoss float64, allowShort bool, maxTradesPerDay int) StepRules {
	return StepRules{
		Exits: []ExitRule{
			{
				Reason: ReasonTakeProfit,
				Match:  func(pnl float64, _ Regime, _ Holding) bool { return pnl >= takeProfit },
			},
			{
				Reason: ReasonStopLoss,
				Match:  func(pnl float64, _ Regime, _ Holding) bool { return pnl <= stopLoss },
			},
			{
				Reason: ReasonRegime,
				Match:  func(_ float64, desired Regime, held Holding) bool { return desired != held.direction() },
			},
		},
		AllowShort:      allowShort,
		MaxTradesPerDay: maxTradesPerDay,
	}
}

// Step advances the account by one trading day: exits first, then entries, never
// more than MaxTradesPerDay actions. It does not mutate s; the updated state and
// the day's trades are returned.
//
// A held instrument without a price that day is not evaluated for exit.
func (s PositionState) Step(day Day, rules StepRules) (PositionState, []TradeRecord) {
	var trades []TradeRecord
	budget := rules.MaxTradesPerDay

	if s.tradable(s.Held, rules) {
		px := day.price(s.Held)
		if px > 0 && s.EntryPrice > 0 {
			pnl := px/s.EntryPrice - 1
			for _, rule := range rules.Exits {
				if budget <= 0 {
					break
				}
				if !rule.Match(pnl, day.Desired, s.Held) {
					continue
				}
				var t TradeRecord
				s, t = s.close(day, px, rule.Reason)
				trades = append(trades, t)
				budget--
				break
			}
		}
	}

	if budget > 0 && s.Cash > 0 {
		var target Holding
		switch {
		case day.Desired == RegimeUp:
			target = HoldingBull
		case day.Desired == RegimeDown && rules.AllowShort:
			target = HoldingBear
		}
		if target != HoldingNone {
			if px := day.price(target); px > 0 {
				var t TradeRecord
				s, t = s.open(day, target, px)
				trades = append(trades, t)
			}
		}
	}

	return s, trades
}

// tradable reports whether the open holding can be managed under rules.
func (s PositionState) tradable(h Holding, rules StepRules) bool {
	switch h {
	case HoldingBull:
		return s.BullShares > 0
	case HoldingBear:
		return rules.AllowShort && s.BearShares > 0
	default:
		return false
	}
}

func (s PositionState) close(day Day, px float64, reason TradeReason) (PositionState, TradeRecord) {
	qty := s.Shares()
	sym := day.symbol(s.Held)
	s.Cash += qty * px
	s.BullShares, s.BearShares = 0, 0
	s.Held = HoldingNone
	s.EntryPrice = 0
	return s, TradeRecord{
		Date:   day.Date,
		Side:   SideSell,
		Symbol: sym,
		Reason: reason,
		Qty:    qty,
		Price:  px,
		Cash:   s.Cash,
	}
}

func (s PositionState) open(day Day, h Holding, px float64) (PositionState, TradeRecord) {
	qty := s.Cash / px
	if h == HoldingBull {
		s.BullShares = qty
	} else {
		s.BearShares = qty
	}
	s.Cash = 0
	s.Held = h
	s.EntryPrice = px
	return s, TradeRecord{
		Date:   day.Date,
		Side:   SideBuy,
		Symbol: day.symbol(h),
		Reason: ReasonEntry,
		Qty:    qty,
		Price:  px,
		Cash:   s.Cash,
	}
}
