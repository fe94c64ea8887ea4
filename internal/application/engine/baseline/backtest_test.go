package baseline

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/levswing/internal/domain"
)

var start = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func table(bull, bear []float64) domain.PriceTable {
	t := domain.PriceTable{Bull: "TQQQ", Bear: "SQQQ"}
	for i := range bull {
		t.Dates = append(t.Dates, start.AddDate(0, 0, i))
	}
	t.BullClose = bull
	t.BearClose = bear
	return t
}

func TestRun_AllCashKeepsInitialEquity(t *testing.T) {
	tbl := table([]float64{10, 12, 9, 15}, []float64{50, 40, 55, 30})

	res := Run(tbl, []float64{0, 0, 0, 0}, 10_000)

	require.Len(t, res.Equity, 4)
	for _, p := range res.Equity {
		assert.Equal(t, 10_000.0, p.Equity)
	}
	assert.Equal(t, 0.0, res.Stats.MaxDrawdown)
	assert.Equal(t, 0.0, res.Stats.CAGR)
}

func TestRun_FullyLongDoubles(t *testing.T) {
	tbl := table([]float64{10, 12.5, 15, 20}, []float64{50, 45, 40, 30})

	res := Run(tbl, []float64{1, 1, 1, 1}, 10_000)

	assert.InDelta(t, 20_000.0, res.Stats.FinalEquity, 1e-6)
	assert.Equal(t, 0.0, res.Stats.MaxDrawdown)
	assert.Equal(t, 10_000.0, res.Equity[0].Equity, "first day has no return")
}

func TestRun_NegativeSignalFollowsBear(t *testing.T) {
	tbl := table([]float64{10, 20}, []float64{10, 5})

	res := Run(tbl, []float64{-1, -1}, 1_000)

	assert.InDelta(t, 500.0, res.Stats.FinalEquity, 1e-9)
	assert.InDelta(t, -0.5, res.Stats.MaxDrawdown, 1e-9)
}

func TestRun_PadsOverMissingPrices(t *testing.T) {
	tbl := table([]float64{10, math.NaN(), 20}, []float64{5, 5, 5})

	res := Run(tbl, []float64{1, 1, 1}, 100)

	assert.Equal(t, 100.0, res.Equity[1].Equity)
	assert.InDelta(t, 200.0, res.Equity[2].Equity, 1e-9)
}

func TestRun_ShortSignalSliceIsCash(t *testing.T) {
	tbl := table([]float64{10, 20, 40}, []float64{5, 5, 5})

	res := Run(tbl, []float64{1, 1}, 100)

	assert.InDelta(t, 200.0, res.Stats.FinalEquity, 1e-9)
}

func TestRun_EmptyTable(t *testing.T) {
	res := Run(domain.PriceTable{}, nil, 100)

	assert.Empty(t, res.Equity)
	assert.Equal(t, 100.0, res.Stats.FinalEquity)
}

func TestBacktester_UptrendBeatsCash(t *testing.T) {
	bull := make([]float64, 400)
	bear := make([]float64, 400)
	for i := range bull {
		bull[i] = 100 + float64(i)
		bear[i] = 10_000 / bull[i]
	}

	res := New(DefaultConfig()).Run(table(bull, bear))

	require.Len(t, res.Equity, 400)
	assert.Equal(t, 10_000.0, res.Equity[248].Equity, "flat until the slow SMA is defined")
	assert.Greater(t, res.Stats.FinalEquity, 10_000.0)
	assert.Empty(t, res.Trades)
}

func TestNew_DefaultsInitialCash(t *testing.T) {
	b := New(Config{DailySignal: domain.DefaultDailySignalConfig()})
	assert.Equal(t, defaultInitialCash, b.cfg.InitialCash)
}
