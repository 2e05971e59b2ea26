package recorder

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDash/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "db", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_BarsRoundTrip(t *testing.T) {
	r := openTestRecorder(t)

	bars := []model.OHLCV{
		{Time: day(4), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000},
		{Time: day(5), Open: 10.5, High: 12, Low: 10, Close: math.NaN(), Volume: 1200},
		{Time: day(6), Open: 11, High: 13, Low: 10.8, Close: 12.9, Volume: 900},
	}
	require.NoError(t, r.RecordBars("AAPL", bars))

	got, err := r.LoadBars("AAPL", day(1), day(6))
	require.NoError(t, err)
	require.Len(t, got, 2, "end is exclusive")
	assert.Equal(t, day(4), got[0].Time)
	assert.Equal(t, 10.5, got[0].Close)
	assert.True(t, math.IsNaN(got[1].Close), "NaN survives as NULL")
	assert.Equal(t, 1200.0, got[1].Volume)

	other, err := r.LoadBars("MSFT", day(1), day(30))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSQLiteRecorder_UpsertReplaces(t *testing.T) {
	r := openTestRecorder(t)

	require.NoError(t, r.RecordBars("IBM", []model.OHLCV{{Time: day(4), Close: 100}}))
	require.NoError(t, r.RecordBars("IBM", []model.OHLCV{{Time: day(4), Close: 101}}))

	got, err := r.LoadBars("IBM", day(1), day(30))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 101.0, got[0].Close)
}

func TestSQLiteRecorder_RecordFetch(t *testing.T) {
	r := openTestRecorder(t)

	require.NoError(t, r.RecordFetch(&FetchEvent{
		Symbol: "TSLA", Source: "yahoo", Start: day(1), End: day(30), Bars: 20, Duration: 150 * time.Millisecond,
	}))
	require.NoError(t, r.RecordFetch(&FetchEvent{Symbol: "TSLA", Source: "yahoo", Err: "status 500"}))

	n, err := r.FetchCount("TSLA")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	require.NoError(t, r.RecordBars("AAPL", []model.OHLCV{{Time: day(4)}}))
	bars, err := r.LoadBars("AAPL", day(1), day(30))
	require.NoError(t, err)
	assert.Nil(t, bars)
	assert.NoError(t, r.Close())
}
