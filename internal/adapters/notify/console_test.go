package notify_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alejandrodnm/levswing/internal/adapters/notify"
	"github.com/alejandrodnm/levswing/internal/application/engine"
	"github.com/alejandrodnm/levswing/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTrades(n int) []domain.TradeRecord {
	out := make([]domain.TradeRecord, n)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range out {
		side := domain.SideBuy
		reason := domain.ReasonEntry
		cash := 0.0
		if i%2 == 1 {
			side, reason, cash = domain.SideSell, domain.ReasonStopLoss, 9_500
		}
		out[i] = domain.TradeRecord{
			Date:   base.AddDate(0, 0, i),
			Side:   side,
			Symbol: "TQQQ",
			Reason: reason,
			Qty:    200,
			Price:  50,
			Cash:   cash,
		}
	}
	return out
}

func TestConsole_PrintStats(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	res := engine.Result{
		Equity: []domain.EquityPoint{
			{Date: time.Date(2022, 6, 14, 0, 0, 0, 0, time.UTC), Equity: 10_000},
			{Date: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), Equity: 12_500.456},
		},
		Stats: domain.Stats{FinalEquity: 12_500.456, CAGR: 0.118, MaxDrawdown: -0.2534, Trades: 7},
	}

	require.NoError(t, c.PrintStats("swing", 10_000, res))

	out := buf.String()
	assert.Contains(t, out, "Backtest complete (swing).")
	assert.Contains(t, out, "2022-06-14")
	assert.Contains(t, out, "$12500.46")
	assert.Contains(t, out, "25.00%")
	assert.Contains(t, out, "11.80%")
	assert.Contains(t, out, "-25.34%")
	assert.Contains(t, out, "Trades")
}

func TestConsole_PrintStats_BaselineHidesTrades(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	require.NoError(t, c.PrintStats("baseline", 100, engine.Result{Stats: domain.Stats{FinalEquity: 100}}))

	assert.Contains(t, buf.String(), "Backtest complete (baseline).")
	assert.NotContains(t, buf.String(), "Trades")
}

func TestConsole_PrintTrades_OnlyLastN(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	require.NoError(t, c.PrintTrades(makeTrades(5), 2))

	out := buf.String()
	assert.Contains(t, out, "Recent trades (2)")
	assert.NotContains(t, out, "2024-01-04")
	assert.Contains(t, out, "2024-01-05")
	assert.Contains(t, out, "2024-01-06")
	assert.Contains(t, out, "SELL TQQQ (SL)")
	assert.Contains(t, out, "200.0000")
	assert.Contains(t, out, "$50.00")
}

func TestConsole_PrintTrades_AllWhenNoLimit(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	require.NoError(t, c.PrintTrades(makeTrades(3), 0))
	assert.Equal(t, 2, strings.Count(buf.String(), "BUY TQQQ"))
}

func TestConsole_PrintTrades_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, notify.NewConsoleWriter(&buf).PrintTrades(nil, 20))
	assert.Contains(t, buf.String(), "No trades.")
}

func TestConsole_PrintRuns(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	runs := []domain.RunRecord{{
		ID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
		Mode:      "swing",
		CreatedAt: time.Date(2024, 6, 14, 18, 0, 0, 0, time.UTC),
		FirstDate: time.Date(2022, 6, 14, 0, 0, 0, 0, time.UTC),
		LastDate:  time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		Params:    domain.RunParams{AllowShort: true},
		Stats:     domain.Stats{FinalEquity: 11_000, CAGR: 0.05, MaxDrawdown: -0.1, Trades: 4},
	}}

	require.NoError(t, c.PrintRuns(runs))

	out := buf.String()
	assert.Contains(t, out, "0f8fad5b")
	assert.NotContains(t, out, "70867728950e")
	assert.Contains(t, out, "$11000.00")
	assert.Contains(t, out, "yes")
}

func TestConsole_PrintRuns_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, notify.NewConsoleWriter(&buf).PrintRuns(nil))
	assert.Contains(t, buf.String(), "No saved runs.")
}
