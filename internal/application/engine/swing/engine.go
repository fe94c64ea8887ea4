// Package swing is the event-driven end-of-day simulator: it walks the trading
// window day by day, keeping an explicit position and a trade ledger.
package swing

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/levswing/internal/application/engine"
	"github.com/alejandrodnm/levswing/internal/domain"
)

const (
	defaultInitialCash     = 10_000.0
	defaultTakeProfit      = 0.10
	defaultStopLoss        = -0.05
	defaultMaxTradesPerDay = 2
	defaultWindowYears     = 2
)

// Config holds the swing simulator settings.
type Config struct {
	InitialCash     float64
	Regime          domain.RegimeConfig
	TakeProfit      float64 // close when P&L >= TakeProfit
	StopLoss        float64 // close when P&L <= StopLoss (negative)
	AllowShort      bool    // allow long entries in the bear instrument
	MaxTradesPerDay int
	WindowYears     int // trade only the trailing WindowYears of history
}

// DefaultConfig returns the standard swing settings.
func DefaultConfig() Config {
	return Config{
		InitialCash:     defaultInitialCash,
		Regime:          domain.DefaultRegimeConfig(),
		TakeProfit:      defaultTakeProfit,
		StopLoss:        defaultStopLoss,
		AllowShort:      false,
		MaxTradesPerDay: defaultMaxTradesPerDay,
		WindowYears:     defaultWindowYears,
	}
}

// Params returns the run parameters for persistence.
func (c Config) Params() domain.RunParams {
	return domain.RunParams{
		InitialCash:     c.InitialCash,
		Proximity:       c.Regime.Proximity,
		TakeProfit:      c.TakeProfit,
		StopLoss:        c.StopLoss,
		AllowShort:      c.AllowShort,
		MaxTradesPerDay: c.MaxTradesPerDay,
		WindowYears:     c.WindowYears,
	}
}

// Engine runs the swing simulation. It holds no state between runs.
type Engine struct {
	cfg   Config
	rules domain.StepRules
}

// New creates a swing Engine. Only InitialCash is defaulted; the rest of the
// parameters are taken as given.
func New(cfg Config) *Engine {
	if cfg.InitialCash <= 0 {
		cfg.InitialCash = defaultInitialCash
	}
	return &Engine{
		cfg:   cfg,
		rules: domain.NewStepRules(cfg.TakeProfit, cfg.StopLoss, cfg.AllowShort, cfg.MaxTradesPerDay),
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Name implements strategy.Strategy.
func (e *Engine) Name() string { return "swing" }

// Params returns the effective run parameters.
func (e *Engine) Params() domain.RunParams { return e.cfg.Params() }

// Run simulates the trailing trading window of table.
// The regime is computed over the whole table first so the moving averages are
// warmed up before the window starts.
func (e *Engine) Run(table domain.PriceTable) engine.Result {
	if table.IsEmpty() {
		slog.Warn("swing: empty price table, nothing to simulate")
		return engine.Result{Stats: engine.Summarize(nil, nil, e.cfg.InitialCash)}
	}

	regimes := domain.DetectRegime(table.BullClose, e.cfg.Regime)
	start := e.windowStart(table)

	state := domain.NewPositionState(e.cfg.InitialCash)
	equity := make([]domain.EquityPoint, 0, table.Len()-start)
	var trades []domain.TradeRecord

	for i := start; i < table.Len(); i++ {
		day := domain.Day{
			Date:    table.Dates[i],
			Bull:    table.Bull,
			Bear:    table.Bear,
			BullPx:  table.BullPrice(i),
			BearPx:  table.BearPrice(i),
			Desired: regimes[i],
		}

		var dayTrades []domain.TradeRecord
		state, dayTrades = state.Step(day, e.rules)
		for _, t := range dayTrades {
			slog.Debug("swing: trade",
				"date", t.Date.Format("2006-01-02"),
				"action", t.Action(),
				"qty", fmt.Sprintf("%.4f", t.Qty),
				"px", fmt.Sprintf("%.2f", t.Price),
				"cash", fmt.Sprintf("%.2f", t.Cash),
			)
		}
		trades = append(trades, dayTrades...)

		equity = append(equity, domain.EquityPoint{
			Date:   day.Date,
			Equity: state.Equity(day.BullPx, day.BearPx),
		})
	}

	stats := engine.Summarize(equity, trades, e.cfg.InitialCash)
	slog.Info("swing: simulation complete",
		"from", table.Dates[start].Format("2006-01-02"),
		"to", table.Last().Format("2006-01-02"),
		"days", len(equity),
		"trades", stats.Trades,
		"final_equity", fmt.Sprintf("%.2f", stats.FinalEquity),
		"holding", state.Held,
	)
	return engine.Result{Equity: equity, Stats: stats, Trades: trades}
}

// windowStart returns the index of the first trading day on or after
// last - WindowYears. Non-positive WindowYears trades the whole table.
func (e *Engine) windowStart(table domain.PriceTable) int {
	if e.cfg.WindowYears <= 0 {
		return 0
	}
	target := domain.YearsBefore(table.Last(), e.cfg.WindowYears)
	return table.IndexOnOrAfter(target)
}
