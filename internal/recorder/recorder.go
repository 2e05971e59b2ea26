package recorder

import (
	"time"

	"StockDash/internal/model"
)

// FetchEvent records one upstream fetch attempt.
type FetchEvent struct {
	Symbol   string
	Source   string
	Start    time.Time
	End      time.Time
	Bars     int
	Duration time.Duration
	Err      string // empty on success
}

// Recorder caches raw bars and keeps a history of upstream fetches.
// Computed indicators are never stored.
type Recorder interface {
	RecordBars(symbol string, bars []model.OHLCV) error
	LoadBars(symbol string, start, end time.Time) ([]model.OHLCV, error)
	RecordFetch(evt *FetchEvent) error
	Close() error
}
