package ports

import (
	"github.com/alejandrodnm/levswing/internal/application/engine"
	"github.com/alejandrodnm/levswing/internal/domain"
)

// Reporter presenta los resultados de una ejecución al usuario.
type Reporter interface {
	// PrintStats muestra el resumen de rendimiento del modo dado.
	PrintStats(mode string, initialCash float64, res engine.Result) error

	// PrintTrades muestra las últimas limit operaciones del ledger.
	PrintTrades(trades []domain.TradeRecord, limit int) error

	// PrintRuns lista ejecuciones guardadas.
	PrintRuns(runs []domain.RunRecord) error
}
