package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/levswing/config"
)

// writePair genera 600 días que terminan hoy: el bull sube 300 días y luego cae.
func writePair(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	var bull, bear strings.Builder
	bull.WriteString("Date,Close\n")
	bear.WriteString("Date,Adj Close\n")

	start := time.Now().UTC().AddDate(0, 0, -599)
	for i := 0; i < 600; i++ {
		px := 100 + float64(i)
		if i >= 300 {
			px = 399 - float64(i-300)*0.5
		}
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		fmt.Fprintf(&bull, "%s,%.4f\n", date, px)
		fmt.Fprintf(&bear, "%s,%.4f\n", date, 10_000/px)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TQQQ.csv"), []byte(bull.String()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SQQQ.csv"), []byte(bear.String()), 0o644))
	return dir
}

func testConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Simulation.Mode = mode
	cfg.Data.Source = config.SourceCSV
	cfg.Data.Dir = writePair(t)
	cfg.Storage.DSN = ":memory:"
	cfg.Storage.CachePrices = true
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRun_Swing(t *testing.T) {
	cfg := testConfig(t, config.ModeSwing)
	cfg.Simulation.AllowShort = true
	cfg.Output.PrintTrades = true
	cfg.Output.TradesLimit = 3
	cfg.Storage.SaveRuns = true

	var out bytes.Buffer
	a, err := newApp(cfg, &out, false)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.run(context.Background()))
	assert.Contains(t, out.String(), "Backtest complete (swing).")
	assert.Contains(t, out.String(), "Recent trades (3)")

	out.Reset()
	require.NoError(t, a.printHistory(context.Background(), 5))
	assert.Contains(t, out.String(), "swing")
}

func TestRun_Baseline(t *testing.T) {
	cfg := testConfig(t, config.ModeBaseline)

	var out bytes.Buffer
	a, err := newApp(cfg, &out, false)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.run(context.Background()))
	assert.Contains(t, out.String(), "Backtest complete (baseline).")
	assert.NotContains(t, out.String(), "Recent trades")
}

func TestRun_MissingData(t *testing.T) {
	cfg := testConfig(t, config.ModeSwing)
	cfg.Data.Dir = t.TempDir()
	cfg.Storage.CachePrices = false

	a, err := newApp(cfg, &bytes.Buffer{}, false)
	require.NoError(t, err)
	defer a.Close()

	assert.Error(t, a.run(context.Background()))
}

func TestLoadConfig_DefaultWhenMissing(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "config.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, config.ModeBaseline, cfg.Simulation.Mode)

	_, err = loadConfig(filepath.Join(t.TempDir(), "config.yaml"), true)
	assert.Error(t, err)
}
