// Package csvfeed reads daily closes from Yahoo-style CSV exports, one file per
// symbol, so simulations can run without network access.
package csvfeed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/levswing/internal/domain"
)

const dateLayout = "2006-01-02"

// Feed serves closes from <dir>/<SYMBOL>.csv.
type Feed struct {
	dir string
	now func() time.Time
}

// New creates a Feed rooted at dir.
func New(dir string) *Feed {
	return &Feed{dir: dir, now: time.Now}
}

// FetchCloses implements ports.PriceProvider. Only daily files are supported;
// interval is accepted for interface compatibility.
func (f *Feed) FetchCloses(ctx context.Context, symbol, period, _ string) ([]domain.Close, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	since, err := domain.PeriodStart(period, f.now())
	if err != nil {
		return nil, fmt.Errorf("csvfeed.FetchCloses: %w", err)
	}

	path := filepath.Join(f.dir, symbol+".csv")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvfeed.FetchCloses: open %s: %w", path, err)
	}
	defer file.Close()

	closes, err := readCloses(file)
	if err != nil {
		return nil, fmt.Errorf("csvfeed.FetchCloses: %s: %w", path, err)
	}
	closes = domain.FilterSince(closes, since)

	slog.Debug("csv closes loaded", "symbol", symbol, "file", path, "rows", len(closes))
	return closes, nil
}

// readCloses parses a CSV with a Date column and an "Adj Close" or "Close" column.
// Blank and "null" cells are skipped. Rows are returned sorted by date.
func readCloses(r io.Reader) ([]domain.Close, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	dateCol, priceCol, err := columns(header)
	if err != nil {
		return nil, err
	}

	var out []domain.Close
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) <= dateCol || len(rec) <= priceCol {
			continue
		}
		cell := strings.TrimSpace(rec[priceCol])
		if cell == "" || strings.EqualFold(cell, "null") {
			continue
		}
		date, err := parseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		px, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: price %q: %w", line, cell, err)
		}
		out = append(out, domain.Close{Date: date, Price: px})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func columns(header []string) (dateCol, priceCol int, err error) {
	dateCol, adjCol, closeCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date", "datetime":
			dateCol = i
		case "adj close", "adj_close", "adjclose":
			adjCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 {
		return 0, 0, errors.New("missing Date column")
	}
	switch {
	case adjCol >= 0:
		return dateCol, adjCol, nil
	case closeCol >= 0:
		return dateCol, closeCol, nil
	default:
		return 0, 0, errors.New("missing Close column")
	}
}

// parseDate takes the calendar day of "2024-06-05" or "2024-06-05 00:00:00-04:00".
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("date %q", s)
	}
	d, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	return d, nil
}
