package storage

// sqlite.go — caché local de precios.
//
// Estrategia:
//   - `price_bars`: una fila por (símbolo, día). UPSERT: Yahoo reescribe los
//     cierres ajustados históricos tras cada dividendo o split.
//   - Caché en memoria por símbolo: evita writes si el cierre no cambió. En una
//     descarga "max" de TQQQ (~3500 días) casi nada cambia de un día a otro.
//   - Las fechas se guardan como TEXT 'YYYY-MM-DD' para ordenar y comparar.

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/alejandrodnm/levswing/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Cierres ajustados diarios
CREATE TABLE IF NOT EXISTS price_bars (
    symbol     TEXT     NOT NULL,
    date       TEXT     NOT NULL,
    close      REAL     NOT NULL,
    updated_at DATETIME NOT NULL,
    PRIMARY KEY (symbol, date)
);
`

const (
	dateLayout    = "2006-01-02"
	priceEpsilonR = 1e-9 // cambio relativo mínimo para reescribir un cierre
)

// SQLiteStorage implementa ports.PriceCache y ports.RunStorage usando SQLite
// (pure Go, sin CGo).
type SQLiteStorage struct {
	db    *sql.DB
	cache map[string]map[string]float64 // símbolo → fecha → cierre guardado
	mu    sync.Mutex
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	for _, ddl := range []string{schema, runsSchema} {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
		}
	}

	return &SQLiteStorage{
		db:    db,
		cache: make(map[string]map[string]float64),
	}, nil
}

// SaveCloses hace upsert de los cierres que cambiaron respecto a lo guardado.
func (s *SQLiteStorage) SaveCloses(ctx context.Context, symbol string, closes []domain.Close) error {
	if symbol == "" {
		return fmt.Errorf("storage.SaveCloses: empty symbol: %w", ErrInvalidInput)
	}
	if len(closes) == 0 {
		return nil
	}

	toWrite, err := s.filterChanged(ctx, symbol, closes)
	if err != nil {
		return fmt.Errorf("storage.SaveCloses: %w", err)
	}
	if len(toWrite) == 0 {
		return nil // nada nuevo
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveCloses: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_bars (symbol, date, close, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			close      = excluded.close,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveCloses: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, c := range toWrite {
		if _, err := stmt.ExecContext(ctx, symbol, c.Date.Format(dateLayout), c.Price, now); err != nil {
			return fmt.Errorf("storage.SaveCloses: upsert %s %s: %w", symbol, c.Date.Format(dateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveCloses: commit: %w", err)
	}

	s.mu.Lock()
	for _, c := range toWrite {
		s.cache[symbol][c.Date.Format(dateLayout)] = c.Price
	}
	s.mu.Unlock()
	return nil
}

// LoadCloses devuelve los cierres guardados con fecha >= since, ordenados por fecha.
func (s *SQLiteStorage) LoadCloses(ctx context.Context, symbol string, since time.Time) ([]domain.Close, error) {
	from := ""
	if !since.IsZero() {
		from = since.Format(dateLayout)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, close
		FROM price_bars
		WHERE symbol = ? AND date >= ?
		ORDER BY date ASC
	`, symbol, from)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadCloses: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Close
	for rows.Next() {
		var date string
		var c domain.Close
		if err := rows.Scan(&date, &c.Price); err != nil {
			return nil, fmt.Errorf("storage.LoadCloses: scan row: %w", err)
		}
		c.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("storage.LoadCloses: parse date %q: %w", date, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// filterChanged devuelve los cierres nuevos o modificados respecto a la caché.
// La caché de un símbolo se precarga de la DB la primera vez que se usa.
func (s *SQLiteStorage) filterChanged(ctx context.Context, symbol string, closes []domain.Close) ([]domain.Close, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known, ok := s.cache[symbol]
	if !ok {
		var err error
		known, err = s.warmCache(ctx, symbol)
		if err != nil {
			return nil, err
		}
		s.cache[symbol] = known
	}

	var toWrite []domain.Close
	for _, c := range closes {
		if prev, ok := known[c.Date.Format(dateLayout)]; ok && relChange(prev, c.Price) < priceEpsilonR {
			continue
		}
		toWrite = append(toWrite, c)
	}
	return toWrite, nil
}

// warmCache lee de la DB los cierres guardados de un símbolo.
func (s *SQLiteStorage) warmCache(ctx context.Context, symbol string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, close FROM price_bars WHERE symbol = ?`, symbol)
	if err != nil {
		return nil, fmt.Errorf("warm cache: %w", err)
	}
	defer rows.Close()

	known := make(map[string]float64)
	for rows.Next() {
		var date string
		var px float64
		if rows.Scan(&date, &px) == nil {
			known[date] = px
		}
	}
	return known, rows.Err()
}

// relChange devuelve el cambio relativo entre dos valores (0.0 – ∞).
func relChange(old, new float64) float64 {
	if old == 0 {
		return 1.0 // forzar escritura si antes era 0
	}
	return math.Abs(new-old) / math.Abs(old)
}
