package engine

import (
	"github.com/alejandrodnm/levswing/internal/domain"
)

// Result es todo lo que produce una ejecución de un engine.
// Trades solo se rellena en el simulador por eventos.
type Result struct {
	Equity []domain.EquityPoint
	Stats  domain.Stats
	Trades []domain.TradeRecord
}

// Summarize calcula las estadísticas de una curva de equity.
// Con la curva vacía FinalEquity es el capital inicial.
func Summarize(equity []domain.EquityPoint, trades []domain.TradeRecord, initialCash float64) domain.Stats {
	return domain.Stats{
		FinalEquity: domain.FinalEquity(equity, initialCash),
		CAGR:        domain.CAGR(equity),
		MaxDrawdown: domain.MaxDrawdown(equity),
		Trades:      len(trades),
	}
}

// TotalReturn devuelve final / inicial - 1; 0 si el capital inicial no es positivo.
func TotalReturn(stats domain.Stats, initialCash float64) float64 {
	if initialCash <= 0 {
		return 0
	}
	return stats.FinalEquity/initialCash - 1
}
