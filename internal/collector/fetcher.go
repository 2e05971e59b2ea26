package collector

import (
	"context"
	"errors"
	"time"

	"StockDash/internal/model"
)

// ErrNoData is returned when the upstream has no bars for the query.
var ErrNoData = errors.New("no data returned, check ticker or date range")

// Query selects the daily bars of one ticker. End is exclusive.
type Query struct {
	Symbol   string
	Start    time.Time
	End      time.Time
	Adjusted bool // split/dividend adjusted prices
}

// cacheKey separates adjusted and raw bars of the same ticker in the recorder.
func (q Query) cacheKey() string {
	if q.Adjusted {
		return q.Symbol + ":adj"
	}
	return q.Symbol
}

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchBars(ctx context.Context, q Query) ([]model.OHLCV, error)
	Name() string
}
