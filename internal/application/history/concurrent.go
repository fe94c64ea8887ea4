package history

// concurrent.go — descarga en paralelo de los símbolos del par.
//
// Cada símbolo es una petición HTTP independiente; el rate limiter del
// proveedor sigue aplicando entre ellas.

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/levswing/internal/domain"
)

type fetchResult struct {
	symbol string
	closes []domain.Close
	err    error
}

// fetchConcurrent obtiene los cierres de todos los símbolos con un worker por
// símbolo y devuelve el primer error encontrado, en el orden de symbols.
func (l *Loader) fetchConcurrent(ctx context.Context, symbols []string, period, interval string, since time.Time) (map[string][]domain.Close, error) {
	workCh := make(chan string, len(symbols))
	resultCh := make(chan fetchResult, len(symbols))

	var wg sync.WaitGroup
	for range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range workCh {
				closes, err := l.closes(ctx, sym, period, interval, since)
				resultCh <- fetchResult{symbol: sym, closes: closes, err: err}
			}
		}()
	}

	for _, sym := range symbols {
		workCh <- sym
	}
	close(workCh)

	// Cerrar resultCh cuando todos los workers terminen.
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	out := make(map[string][]domain.Close, len(symbols))
	errs := make(map[string]error)
	for r := range resultCh {
		if r.err != nil {
			errs[r.symbol] = r.err
			continue
		}
		out[r.symbol] = r.closes
	}

	for _, sym := range symbols {
		if err, ok := errs[sym]; ok {
			return nil, err
		}
	}

	slog.Debug("concurrent fetch complete", "symbols", len(symbols))
	return out, nil
}
