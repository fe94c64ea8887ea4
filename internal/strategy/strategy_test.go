package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/levswing/internal/application/engine/baseline"
	"github.com/alejandrodnm/levswing/internal/application/engine/swing"
	"github.com/alejandrodnm/levswing/internal/domain"
	"github.com/alejandrodnm/levswing/internal/strategy"
)

func TestRegistry_BuiltinStrategies(t *testing.T) {
	r := strategy.NewRegistry(
		baseline.New(baseline.DefaultConfig()),
		swing.New(swing.DefaultConfig()),
	)

	assert.Equal(t, []string{"baseline", "swing"}, r.Names())

	s, ok := r.Get("swing")
	require.True(t, ok)
	assert.Equal(t, 0.03, s.Params().Proximity)

	b, err := r.MustGet("baseline")
	require.NoError(t, err)
	assert.Equal(t, 0.07, b.Params().Proximity)
	assert.Equal(t, 10_000.0, b.Run(domain.PriceTable{}).Stats.FinalEquity)
}

func TestRegistry_Unknown(t *testing.T) {
	r := strategy.NewRegistry(swing.New(swing.DefaultConfig()))

	_, ok := r.Get("intraday")
	assert.False(t, ok)

	_, err := r.MustGet("intraday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swing")
}
