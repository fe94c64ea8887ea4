package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alejandrodnm/levswing/config"
	"github.com/alejandrodnm/levswing/internal/adapters/csvfeed"
	"github.com/alejandrodnm/levswing/internal/adapters/notify"
	"github.com/alejandrodnm/levswing/internal/adapters/storage"
	"github.com/alejandrodnm/levswing/internal/adapters/yahoo"
	"github.com/alejandrodnm/levswing/internal/application/engine"
	"github.com/alejandrodnm/levswing/internal/application/engine/baseline"
	"github.com/alejandrodnm/levswing/internal/application/engine/swing"
	"github.com/alejandrodnm/levswing/internal/application/history"
	"github.com/alejandrodnm/levswing/internal/domain"
	"github.com/alejandrodnm/levswing/internal/ports"
	"github.com/alejandrodnm/levswing/internal/strategy"
)

// app wires the adapters for one invocation of the CLI.
type app struct {
	cfg      *config.Config
	loader   *history.Loader
	store    *storage.SQLiteStorage // nil when nothing needs the database
	reporter ports.Reporter
}

func newApp(cfg *config.Config, out io.Writer, needStore bool) (*app, error) {
	var provider ports.PriceProvider
	switch cfg.Data.Source {
	case config.SourceCSV:
		provider = csvfeed.New(cfg.Data.Dir)
	default:
		provider = yahoo.NewClient(cfg.Data.YahooBase)
	}

	a := &app{cfg: cfg, reporter: notify.NewConsoleWriter(out)}

	if needStore || cfg.Storage.CachePrices || cfg.Storage.SaveRuns {
		store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open storage %q: %w", cfg.Storage.DSN, err)
		}
		a.store = store
	}

	if a.store != nil && cfg.Storage.CachePrices {
		a.loader = history.NewLoader(provider, a.store)
	} else {
		a.loader = history.NewLoader(provider, nil)
	}
	return a, nil
}

// Close releases the database; safe to call twice.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// run loads prices, runs the configured mode and reports the result.
func (a *app) run(ctx context.Context) error {
	mode := a.cfg.Simulation.Mode
	table, err := a.loader.Load(ctx, history.Request{
		Bull:     a.cfg.Symbols.Bull,
		Bear:     a.cfg.Symbols.Bear,
		Period:   a.cfg.Period(),
		Interval: a.cfg.Data.Interval,
	})
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	strat, err := strategy.NewRegistry(
		baseline.New(a.cfg.Baseline()),
		swing.New(a.cfg.Swing()),
	).MustGet(mode)
	if err != nil {
		return err
	}
	res := strat.Run(table)
	params := strat.Params()

	if err := a.reporter.PrintStats(mode, params.InitialCash, res); err != nil {
		return fmt.Errorf("print stats: %w", err)
	}
	if mode == config.ModeSwing && a.cfg.Output.PrintTrades {
		if err := a.reporter.PrintTrades(res.Trades, a.cfg.Output.TradesLimit); err != nil {
			return fmt.Errorf("print trades: %w", err)
		}
	}

	if a.cfg.Storage.SaveRuns && a.store != nil {
		id, err := a.store.SaveRun(ctx, runRecord(mode, table, params, res))
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		slog.Info("run saved", "id", id, "trades", len(res.Trades))
	}
	return nil
}

// printHistory lists the last n saved runs.
func (a *app) printHistory(ctx context.Context, n int) error {
	runs, err := a.store.ListRuns(ctx, n)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	return a.reporter.PrintRuns(runs)
}

func runRecord(mode string, table domain.PriceTable, params domain.RunParams, res engine.Result) domain.RunRecord {
	r := domain.RunRecord{
		Mode:      mode,
		CreatedAt: time.Now(),
		Bull:      table.Bull,
		Bear:      table.Bear,
		Params:    params,
		Stats:     res.Stats,
		Trades:    res.Trades,
	}
	if len(res.Equity) > 0 {
		r.FirstDate = res.Equity[0].Date
		r.LastDate = res.Equity[len(res.Equity)-1].Date
	}
	return r
}
