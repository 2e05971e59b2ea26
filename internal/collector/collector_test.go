package collector

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDash/internal/metrics"
	"StockDash/internal/model"
	"StockDash/internal/recorder"
)

func march(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC) }

func TestCollector_FetchesAndCaches(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	defer rec.Close()

	mock := &MockFetcher{Price: 100}
	col := NewCollector(mock, rec, metrics.New())
	q := Query{Symbol: "AAPL", Start: march(4), End: march(11)}

	series, err := col.Collect(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "mock", series.Source)
	assert.Len(t, series.Bars, 5)

	cached, err := rec.LoadBars("AAPL", march(4), march(11))
	require.NoError(t, err)
	assert.Len(t, cached, 5)

	n, err := rec.FetchCount("AAPL")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollector_FallsBackToCache(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	defer rec.Close()

	m := metrics.New()
	mock := &MockFetcher{Price: 50}
	col := NewCollector(mock, rec, m)
	q := Query{Symbol: "IBM", Start: march(4), End: march(11)}
	_, err = col.Collect(context.Background(), q)
	require.NoError(t, err)

	mock.Err = errors.New("connection refused")
	series, err := col.Collect(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "cache", series.Source)
	assert.Len(t, series.Bars, 5)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheFallbacks))

	// nothing cached for the adjusted variant
	q.Adjusted = true
	_, err = col.Collect(context.Background(), q)
	assert.ErrorContains(t, err, "connection refused")
}

func TestCollector_NoData(t *testing.T) {
	mock := &MockFetcher{Data: map[string][]model.OHLCV{"ZZZZ": nil}}
	col := NewCollector(mock, nil, nil)

	_, err := col.Collect(context.Background(), Query{Symbol: "ZZZZ", Start: march(4), End: march(11)})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCollector_RejectsBadQuery(t *testing.T) {
	col := NewCollector(&MockFetcher{Price: 1}, nil, nil)

	_, err := col.Collect(context.Background(), Query{Start: march(4), End: march(11)})
	assert.Error(t, err)
	_, err = col.Collect(context.Background(), Query{Symbol: "AAPL", Start: march(11), End: march(4)})
	assert.Error(t, err)
}
