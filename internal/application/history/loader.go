package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/levswing/internal/domain"
	"github.com/alejandrodnm/levswing/internal/ports"
)

const defaultInterval = "1d"

// Request describe qué histórico cargar.
type Request struct {
	Bull     string
	Bear     string
	Period   string // "max" o "<n>y"
	Interval string // "1d" por defecto
}

// Loader descarga los cierres del par y los alinea en una PriceTable.
// Con caché configurada guarda cada descarga y, si el proveedor falla,
// recurre a lo guardado.
type Loader struct {
	provider ports.PriceProvider
	cache    ports.PriceCache
	now      func() time.Time
}

// NewLoader crea un Loader. cache puede ser nil.
func NewLoader(provider ports.PriceProvider, cache ports.PriceCache) *Loader {
	return &Loader{provider: provider, cache: cache, now: time.Now}
}

// Load devuelve la tabla alineada del par.
// Devuelve domain.ErrNoData si tras alinear no queda ningún día.
func (l *Loader) Load(ctx context.Context, req Request) (domain.PriceTable, error) {
	if req.Interval == "" {
		req.Interval = defaultInterval
	}
	if req.Period == "" {
		req.Period = domain.PeriodMax
	}
	since, err := domain.PeriodStart(req.Period, l.now())
	if err != nil {
		return domain.PriceTable{}, fmt.Errorf("history.Load: %w", err)
	}

	closes, err := l.fetchConcurrent(ctx, []string{req.Bull, req.Bear}, req.Period, req.Interval, since)
	if err != nil {
		return domain.PriceTable{}, err
	}

	table := domain.AlignCloses(req.Bull, req.Bear, closes[req.Bull], closes[req.Bear])
	if table.IsEmpty() {
		return domain.PriceTable{}, fmt.Errorf("history.Load: %s/%s: %w", req.Bull, req.Bear, domain.ErrNoData)
	}

	slog.Info("history loaded",
		"bull", req.Bull,
		"bear", req.Bear,
		"period", req.Period,
		"days", table.Len(),
		"from", table.First().Format("2006-01-02"),
		"to", table.Last().Format("2006-01-02"),
	)
	return table, nil
}

// closes obtiene los cierres de un símbolo: proveedor primero, caché como respaldo.
func (l *Loader) closes(ctx context.Context, symbol, period, interval string, since time.Time) ([]domain.Close, error) {
	fetched, fetchErr := l.provider.FetchCloses(ctx, symbol, period, interval)
	if fetchErr == nil && len(fetched) > 0 {
		if l.cache != nil {
			if err := l.cache.SaveCloses(ctx, symbol, fetched); err != nil {
				slog.Warn("price cache write failed", "symbol", symbol, "err", err)
			}
		}
		return fetched, nil
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("history.closes: %s: %w", symbol, ctx.Err())
	}
	if l.cache == nil {
		if fetchErr != nil {
			return nil, fmt.Errorf("history.closes: fetch %s: %w", symbol, fetchErr)
		}
		return nil, fmt.Errorf("history.closes: %s: %w", symbol, domain.ErrNoData)
	}

	slog.Warn("price provider unavailable, using cache", "symbol", symbol, "err", fetchErr)
	cached, err := l.cache.LoadCloses(ctx, symbol, since)
	if err != nil {
		return nil, fmt.Errorf("history.closes: load cache %s: %w", symbol, err)
	}
	if len(cached) == 0 {
		if fetchErr != nil {
			return nil, fmt.Errorf("history.closes: %s not cached: %w", symbol, fetchErr)
		}
		return nil, fmt.Errorf("history.closes: %s: %w", symbol, domain.ErrNoData)
	}
	return cached, nil
}
