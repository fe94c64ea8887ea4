package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/alejandrodnm/levswing/internal/domain"
)

// FetchCloses implementa ports.PriceProvider contra GET /v8/finance/chart/{symbol}.
func (c *Client) FetchCloses(ctx context.Context, symbol, period, interval string) ([]domain.Close, error) {
	if period == "" {
		period = domain.PeriodMax
	}
	if interval == "" {
		interval = "1d"
	}

	q := url.Values{}
	q.Set("range", period)
	q.Set("interval", interval)
	q.Set("includeAdjustedClose", "true")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.base, url.PathEscape(symbol), q.Encode())

	var resp chartResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("yahoo.FetchCloses: %s: %w", symbol, err)
	}
	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo.FetchCloses: %s: %s: %s", symbol, e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo.FetchCloses: %s: %w", symbol, domain.ErrNoData)
	}

	closes := mapCloses(resp.Chart.Result[0])
	slog.Debug("yahoo closes fetched", "symbol", symbol, "range", period, "rows", len(closes))
	return closes, nil
}
