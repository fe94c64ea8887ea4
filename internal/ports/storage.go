package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/levswing/internal/domain"
)

// PriceCache guarda los cierres descargados para poder trabajar sin red.
type PriceCache interface {
	// SaveCloses inserta o actualiza los cierres de un símbolo.
	SaveCloses(ctx context.Context, symbol string, closes []domain.Close) error

	// LoadCloses devuelve los cierres guardados con fecha >= since, ordenados.
	// Un since cero devuelve todo el histórico.
	LoadCloses(ctx context.Context, symbol string, since time.Time) ([]domain.Close, error)
}

// RunStorage persists finished simulation runs as an audit trail.
type RunStorage interface {
	// SaveRun stores the run and its trade ledger. An empty ID is replaced by a new UUID,
	// which is returned.
	SaveRun(ctx context.Context, run domain.RunRecord) (string, error)

	// ListRuns returns the most recent runs first, without their trades.
	ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// GetRunTrades returns the ledger of a saved run in execution order.
	GetRunTrades(ctx context.Context, runID string) ([]domain.TradeRecord, error)

	// Close releases the underlying database.
	Close() error
}
