package ports

import (
	"context"

	"github.com/alejandrodnm/levswing/internal/domain"
)

// PriceProvider obtiene el histórico de cierres ajustados de un símbolo.
type PriceProvider interface {
	// FetchCloses devuelve los cierres diarios del periodo pedido ("max" o "<n>y"),
	// ordenados por fecha. interval es la granularidad de la fuente ("1d").
	FetchCloses(ctx context.Context, symbol, period, interval string) ([]domain.Close, error)
}
