package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/levswing/config"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	mode := flag.String("mode", "", "strategy to run: baseline|swing (overrides config)")
	initialCash := flag.Float64("initial-cash", 10_000, "starting cash")
	proximity := flag.Float64("proximity", 0.03, "swing: distance to SMA250 treated as near (0.03 = 3%)")
	tp := flag.Float64("tp", 0.10, "swing: take-profit threshold (0.10 = +10%)")
	sl := flag.Float64("sl", -0.05, "swing: stop-loss threshold (-0.05 = -5%)")
	allowShort := flag.Bool("allow-short", false, "swing: buy the bear ETF in a downtrend")
	maxTrades := flag.Int("max-trades-per-day", 2, "swing: max actions per trading day")
	years := flag.Int("years", 2, "swing: trailing window to trade (years)")
	lookback := flag.Int("lookback-years", 10, "swing: history to download for indicators (years)")
	printTrades := flag.Bool("print-trades", false, "swing: print the trade ledger")
	tradesLimit := flag.Int("trades-limit", 20, "how many trades to print from the end")
	dataDir := flag.String("data-dir", "", "read <SYMBOL>.csv from this directory instead of Yahoo")
	save := flag.Bool("save", false, "save the run to the local history")
	history := flag.Int("history", 0, "print the last N saved runs and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(*configPath, set["config"])
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	// Solo los flags puestos explícitamente pisan el archivo.
	if set["mode"] {
		cfg.Simulation.Mode = *mode
	}
	if set["initial-cash"] {
		cfg.Simulation.InitialCash = *initialCash
	}
	if set["proximity"] {
		cfg.Simulation.Proximity = *proximity
	}
	if set["tp"] {
		cfg.Simulation.TakeProfit = *tp
	}
	if set["sl"] {
		cfg.Simulation.StopLoss = *sl
	}
	if set["allow-short"] {
		cfg.Simulation.AllowShort = *allowShort
	}
	if set["max-trades-per-day"] {
		cfg.Simulation.MaxTradesPerDay = *maxTrades
	}
	if set["years"] {
		cfg.Simulation.WindowYears = *years
	}
	if set["lookback-years"] {
		cfg.Data.LookbackYears = *lookback
	}
	if set["print-trades"] {
		cfg.Output.PrintTrades = *printTrades
	}
	if set["trades-limit"] {
		cfg.Output.TradesLimit = *tradesLimit
	}
	if set["data-dir"] {
		cfg.Data.Source = config.SourceCSV
		cfg.Data.Dir = *dataDir
	}
	if set["save"] {
		cfg.Storage.SaveRuns = *save
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	slog.Info("levswing starting",
		"config", *configPath,
		"mode", cfg.Simulation.Mode,
		"bull", cfg.Symbols.Bull,
		"bear", cfg.Symbols.Bear,
		"source", cfg.Data.Source,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(cfg, os.Stdout, *history > 0)
	if err != nil {
		slog.Error("failed to initialise", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	if *history > 0 {
		err = a.printHistory(ctx, *history)
	} else {
		err = a.run(ctx)
	}
	if err != nil {
		slog.Error("levswing failed", "err", err)
		a.Close()
		os.Exit(1)
	}
}

// loadConfig lee el archivo de config. Si no se pidió uno explícitamente y el
// de por defecto no existe, arranca con los defaults.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
