// Package baseline runs the frictionless vectorized backtest: every day the whole
// portfolio is reallocated according to the signal, with no costs.
package baseline

import (
	"log/slog"
	"math"

	"github.com/alejandrodnm/levswing/internal/application/engine"
	"github.com/alejandrodnm/levswing/internal/domain"
)

const defaultInitialCash = 10_000.0

// Config holds the baseline backtest settings.
type Config struct {
	InitialCash float64
	DailySignal domain.DailySignalConfig
}

// DefaultConfig returns the standard baseline settings.
func DefaultConfig() Config {
	return Config{
		InitialCash: defaultInitialCash,
		DailySignal: domain.DefaultDailySignalConfig(),
	}
}

// Backtester runs the daily long/cash signal through the vectorized backtest.
type Backtester struct {
	cfg Config
}

// New creates a Backtester. A non-positive InitialCash falls back to the default.
func New(cfg Config) *Backtester {
	if cfg.InitialCash <= 0 {
		cfg.InitialCash = defaultInitialCash
	}
	return &Backtester{cfg: cfg}
}

// Name implements strategy.Strategy.
func (b *Backtester) Name() string { return "baseline" }

// Params returns the run parameters for persistence.
func (b *Backtester) Params() domain.RunParams {
	return domain.RunParams{
		InitialCash: b.cfg.InitialCash,
		Proximity:   b.cfg.DailySignal.Proximity,
	}
}

// Run generates daily signals from the bull closes and backtests them.
func (b *Backtester) Run(table domain.PriceTable) engine.Result {
	signals := domain.DailySignals(table.BullClose, b.cfg.DailySignal)
	res := Run(table, signals, b.cfg.InitialCash)

	slog.Info("baseline: backtest complete",
		"days", table.Len(),
		"final_equity", res.Stats.FinalEquity,
		"cagr", res.Stats.CAGR,
		"max_drawdown", res.Stats.MaxDrawdown,
	)
	return res
}

// Run converts a signal series into an equity curve.
//
//	port_ret = bull_ret * max(signal, 0) + bear_ret * |min(signal, 0)|
//	equity   = cumprod(1 + port_ret) * initialCash
//
// signals is aligned to table.Dates; missing trailing entries count as 0 (cash).
// The first day's return is 0. A missing price contributes a 0 return and the
// next valid close is compared with the last valid one.
func Run(table domain.PriceTable, signals []float64, initialCash float64) engine.Result {
	bullRet := dailyReturns(table.BullClose)
	bearRet := dailyReturns(table.BearClose)

	equity := make([]domain.EquityPoint, table.Len())
	value := initialCash
	for i, d := range table.Dates {
		sig := 0.0
		if i < len(signals) && !math.IsNaN(signals[i]) {
			sig = signals[i]
		}
		ret := bullRet[i]*math.Max(sig, 0) + bearRet[i]*math.Abs(math.Min(sig, 0))
		value *= 1 + ret
		equity[i] = domain.EquityPoint{Date: d, Equity: value}
	}

	stats := engine.Summarize(equity, nil, initialCash)
	return engine.Result{Equity: equity, Stats: stats}
}

// dailyReturns computes close-to-close simple returns, padding over missing prices.
func dailyReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	last := math.NaN()
	for i, c := range closes {
		if math.IsNaN(c) {
			continue
		}
		if !math.IsNaN(last) && last != 0 {
			out[i] = c/last - 1
		}
		last = c
	}
	return out
}
