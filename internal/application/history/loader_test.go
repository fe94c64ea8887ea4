package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/levswing/internal/domain"
)

// --- mocks ---

type mockProvider struct {
	mu     sync.Mutex
	closes map[string][]domain.Close
	err    error
	calls  []string
}

func (m *mockProvider) FetchCloses(_ context.Context, symbol, period, interval string) ([]domain.Close, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, symbol+":"+period+":"+interval)
	if m.err != nil {
		return nil, m.err
	}
	return m.closes[symbol], nil
}

type mockCache struct {
	mu        sync.Mutex
	saved     map[string][]domain.Close
	stored    map[string][]domain.Close
	lastSince time.Time
	err       error
}

func newMockCache() *mockCache {
	return &mockCache{saved: map[string][]domain.Close{}, stored: map[string][]domain.Close{}}
}

func (m *mockCache) SaveCloses(_ context.Context, symbol string, closes []domain.Close) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[symbol] = closes
	return m.err
}

func (m *mockCache) LoadCloses(_ context.Context, symbol string, since time.Time) ([]domain.Close, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSince = since
	return domain.FilterSince(m.stored[symbol], since), nil
}

// --- helpers ---

var now = time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC)

func series(from time.Time, prices ...float64) []domain.Close {
	out := make([]domain.Close, len(prices))
	for i, p := range prices {
		out[i] = domain.Close{Date: from.AddDate(0, 0, i), Price: p}
	}
	return out
}

func newTestLoader(p *mockProvider, c *mockCache) *Loader {
	var l *Loader
	if c == nil {
		l = NewLoader(p, nil)
	} else {
		l = NewLoader(p, c)
	}
	l.now = func() time.Time { return now }
	return l
}

// --- tests ---

func TestLoad_FetchesAndCaches(t *testing.T) {
	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	p := &mockProvider{closes: map[string][]domain.Close{
		"TQQQ": series(from, 50, 51, 52),
		"SQQQ": series(from, 10, 9.8, 9.6),
	}}
	c := newMockCache()

	table, err := newTestLoader(p, c).Load(context.Background(), Request{Bull: "TQQQ", Bear: "SQQQ", Period: "2y"})

	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "TQQQ", table.Bull)
	assert.ElementsMatch(t, []string{"TQQQ:2y:1d", "SQQQ:2y:1d"}, p.calls)
	assert.Len(t, c.saved["TQQQ"], 3)
	assert.Len(t, c.saved["SQQQ"], 3)
}

func TestLoad_FallsBackToCache(t *testing.T) {
	c := newMockCache()
	c.stored["TQQQ"] = append(series(time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC), 1), series(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 40, 41)...)
	c.stored["SQQQ"] = series(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 20, 19)
	p := &mockProvider{err: errors.New("connection refused")}

	table, err := newTestLoader(p, c).Load(context.Background(), Request{Bull: "TQQQ", Bear: "SQQQ", Period: "10y"})

	require.NoError(t, err)
	assert.Equal(t, 2, table.Len(), "closes older than the period are filtered")
	assert.Equal(t, time.Date(2014, 6, 14, 0, 0, 0, 0, time.UTC), c.lastSince)
	assert.Empty(t, c.saved)
}

func TestLoad_ProviderErrorWithoutCache(t *testing.T) {
	p := &mockProvider{err: errors.New("boom")}

	_, err := newTestLoader(p, nil).Load(context.Background(), Request{Bull: "TQQQ", Bear: "SQQQ"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestLoad_NothingCached(t *testing.T) {
	p := &mockProvider{err: errors.New("boom")}

	_, err := newTestLoader(p, newMockCache()).Load(context.Background(), Request{Bull: "TQQQ", Bear: "SQQQ"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not cached")
}

func TestLoad_EmptyProviderIsNoData(t *testing.T) {
	p := &mockProvider{closes: map[string][]domain.Close{}}

	_, err := newTestLoader(p, nil).Load(context.Background(), Request{Bull: "TQQQ", Bear: "SQQQ"})

	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestLoad_InvalidPeriod(t *testing.T) {
	_, err := newTestLoader(&mockProvider{}, nil).Load(context.Background(), Request{Bull: "TQQQ", Bear: "SQQQ", Period: "ten years"})
	assert.Error(t, err)
}

func TestLoad_CacheWriteErrorIsNotFatal(t *testing.T) {
	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	p := &mockProvider{closes: map[string][]domain.Close{
		"TQQQ": series(from, 50),
		"SQQQ": series(from, 10),
	}}
	c := newMockCache()
	c.err = errors.New("disk full")

	table, err := newTestLoader(p, c).Load(context.Background(), Request{Bull: "TQQQ", Bear: "SQQQ"})

	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestLoad_ReportsFailingSymbol(t *testing.T) {
	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	p := &mockProvider{closes: map[string][]domain.Close{
		"TQQQ": series(from, 50),
	}}

	_, err := newTestLoader(p, nil).Load(context.Background(), Request{Bull: "TQQQ", Bear: "SQQQ"})

	require.ErrorIs(t, err, domain.ErrNoData)
	assert.Contains(t, err.Error(), "SQQQ")
}
