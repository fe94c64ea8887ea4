package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/levswing/internal/application/engine/baseline"
	"github.com/alejandrodnm/levswing/internal/application/engine/swing"
	"github.com/alejandrodnm/levswing/internal/domain"
)

// Fuentes de precios soportadas.
const (
	SourceYahoo = "yahoo"
	SourceCSV   = "csv"
)

// Modos de simulación.
const (
	ModeBaseline = "baseline"
	ModeSwing    = "swing"
)

// Config es la configuración completa del simulador.
type Config struct {
	Symbols    SymbolsConfig    `yaml:"symbols"`
	Data       DataConfig       `yaml:"data"`
	Simulation SimulationConfig `yaml:"simulation"`
	Output     OutputConfig     `yaml:"output"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// SymbolsConfig es el par apalancado a simular.
type SymbolsConfig struct {
	Bull string `yaml:"bull"` // long 3x (TQQQ)
	Bear string `yaml:"bear"` // inverso 3x (SQQQ)
}

// DataConfig controla de dónde salen los precios.
type DataConfig struct {
	Source        string `yaml:"source"`         // yahoo | csv
	Dir           string `yaml:"dir"`            // directorio con <SYMBOL>.csv si source=csv
	YahooBase     string `yaml:"yahoo_base"`     // base URL del API de charts
	Interval      string `yaml:"interval"`       // granularidad, solo "1d"
	LookbackYears int    `yaml:"lookback_years"` // histórico a descargar en modo swing
}

// SimulationConfig son los parámetros de la estrategia.
type SimulationConfig struct {
	Mode              string  `yaml:"mode"` // baseline | swing
	InitialCash       float64 `yaml:"initial_cash"`
	Proximity         float64 `yaml:"proximity"`          // régimen del swing (3%)
	BaselineProximity float64 `yaml:"baseline_proximity"` // señal diaria del baseline (7%)
	TakeProfit        float64 `yaml:"take_profit"`
	StopLoss          float64 `yaml:"stop_loss"` // negativo; 0 = default
	AllowShort        bool    `yaml:"allow_short"`
	MaxTradesPerDay   int     `yaml:"max_trades_per_day"`
	WindowYears       int     `yaml:"window_years"`
	FastWindow        int     `yaml:"fast_window"`
	SlowWindow        int     `yaml:"slow_window"`
	ShrinkLookback    int     `yaml:"shrink_lookback"`
}

// OutputConfig controla lo que se imprime al terminar.
type OutputConfig struct {
	PrintTrades bool `yaml:"print_trades"`
	TradesLimit int  `yaml:"trades_limit"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN         string `yaml:"dsn"`          // ruta al archivo SQLite, o ":memory:"
	CachePrices bool   `yaml:"cache_prices"` // guardar descargas y usarlas sin red
	SaveRuns    bool   `yaml:"save_runs"`    // guardar cada ejecución en el histórico
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Default devuelve la configuración sin archivo: defaults más variables de entorno.
func Default() *Config {
	_ = godotenv.Load()

	var cfg Config
	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	return &cfg
}

// Validate comprueba los valores que no tienen default razonable.
func (c *Config) Validate() error {
	switch c.Simulation.Mode {
	case ModeBaseline, ModeSwing:
	default:
		return fmt.Errorf("unknown mode %q (want %s|%s)", c.Simulation.Mode, ModeBaseline, ModeSwing)
	}
	switch c.Data.Source {
	case SourceYahoo:
	case SourceCSV:
		if c.Data.Dir == "" {
			return fmt.Errorf("data.source=csv needs data.dir")
		}
	default:
		return fmt.Errorf("unknown data source %q (want %s|%s)", c.Data.Source, SourceYahoo, SourceCSV)
	}
	if c.Symbols.Bull == c.Symbols.Bear {
		return fmt.Errorf("bull and bear symbols must differ, both are %q", c.Symbols.Bull)
	}
	if c.Simulation.StopLoss > 0 {
		return fmt.Errorf("stop_loss must be negative, got %v", c.Simulation.StopLoss)
	}
	return nil
}

// Period devuelve el periodo a descargar para el modo configurado.
// El baseline usa todo el histórico; el swing, lookback_years.
func (c *Config) Period() string {
	if c.Simulation.Mode == ModeBaseline {
		return domain.PeriodMax
	}
	return fmt.Sprintf("%dy", c.Data.LookbackYears)
}

// Swing traduce la sección simulation al config del simulador por eventos.
func (c *Config) Swing() swing.Config {
	s := c.Simulation
	return swing.Config{
		InitialCash: s.InitialCash,
		Regime: domain.RegimeConfig{
			Proximity:      s.Proximity,
			FastWindow:     s.FastWindow,
			SlowWindow:     s.SlowWindow,
			ShrinkLookback: s.ShrinkLookback,
		},
		TakeProfit:      s.TakeProfit,
		StopLoss:        s.StopLoss,
		AllowShort:      s.AllowShort,
		MaxTradesPerDay: s.MaxTradesPerDay,
		WindowYears:     s.WindowYears,
	}
}

// Baseline traduce la sección simulation al config del backtest vectorizado.
func (c *Config) Baseline() baseline.Config {
	s := c.Simulation
	return baseline.Config{
		InitialCash: s.InitialCash,
		DailySignal: domain.DailySignalConfig{
			Proximity:      s.BaselineProximity,
			FastWindow:     s.FastWindow,
			SlowWindow:     s.SlowWindow,
			ShrinkLookback: s.ShrinkLookback,
		},
	}
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("LEVSWING_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LEVSWING_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
		cfg.Data.Source = SourceCSV
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Data.YahooBase = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Symbols.Bull == "" {
		cfg.Symbols.Bull = "TQQQ"
	}
	if cfg.Symbols.Bear == "" {
		cfg.Symbols.Bear = "SQQQ"
	}

	if cfg.Data.Source == "" {
		cfg.Data.Source = SourceYahoo
		if cfg.Data.Dir != "" {
			cfg.Data.Source = SourceCSV
		}
	}
	if cfg.Data.YahooBase == "" {
		cfg.Data.YahooBase = "https://query1.finance.yahoo.com"
	}
	if cfg.Data.Interval == "" {
		cfg.Data.Interval = "1d"
	}
	if cfg.Data.LookbackYears <= 0 {
		cfg.Data.LookbackYears = 10
	}

	sw := swing.DefaultConfig()
	bl := baseline.DefaultConfig()
	sim := &cfg.Simulation
	if sim.Mode == "" {
		sim.Mode = ModeBaseline
	}
	if sim.InitialCash <= 0 {
		sim.InitialCash = sw.InitialCash
	}
	if sim.Proximity <= 0 {
		sim.Proximity = sw.Regime.Proximity
	}
	if sim.BaselineProximity <= 0 {
		sim.BaselineProximity = bl.DailySignal.Proximity
	}
	if sim.TakeProfit <= 0 {
		sim.TakeProfit = sw.TakeProfit
	}
	if sim.StopLoss == 0 {
		sim.StopLoss = sw.StopLoss
	}
	if sim.MaxTradesPerDay <= 0 {
		sim.MaxTradesPerDay = sw.MaxTradesPerDay
	}
	if sim.WindowYears <= 0 {
		sim.WindowYears = sw.WindowYears
	}
	if sim.FastWindow <= 0 {
		sim.FastWindow = sw.Regime.FastWindow
	}
	if sim.SlowWindow <= 0 {
		sim.SlowWindow = sw.Regime.SlowWindow
	}
	if sim.ShrinkLookback <= 0 {
		sim.ShrinkLookback = sw.Regime.ShrinkLookback
	}

	if cfg.Output.TradesLimit <= 0 {
		cfg.Output.TradesLimit = 20
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "levswing.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
