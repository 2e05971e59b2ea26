package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"StockDash/internal/metrics"
	"StockDash/internal/model"
	"StockDash/internal/recorder"
)

// Collector fetches bars, keeps the recorder's cache warm and falls back to
// cached bars when the upstream is unavailable.
type Collector struct {
	Fetcher  Fetcher
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics
}

// NewCollector creates a new Collector. rec may be nil.
func NewCollector(fetcher Fetcher, rec recorder.Recorder, m *metrics.Metrics) *Collector {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Collector{Fetcher: fetcher, Recorder: rec, Metrics: m}
}

// Collect returns the bars of q in ascending date order.
func (c *Collector) Collect(ctx context.Context, q Query) (*model.PriceSeries, error) {
	if q.Symbol == "" {
		return nil, errors.New("symbol is required")
	}
	if !q.Start.Before(q.End) {
		return nil, fmt.Errorf("start %s must be before end %s", q.Start.Format("2006-01-02"), q.End.Format("2006-01-02"))
	}

	start := time.Now()
	bars, err := c.Fetcher.FetchBars(ctx, q)
	if err == nil && len(bars) == 0 {
		err = fmt.Errorf("%s: %w", q.Symbol, ErrNoData)
	}
	c.Metrics.ObserveFetch(c.Fetcher.Name(), start, err)
	c.recordFetch(q, len(bars), time.Since(start), err)

	if err != nil {
		if errors.Is(err, ErrNoData) || ctx.Err() != nil {
			return nil, err
		}
		cached, cerr := c.Recorder.LoadBars(q.cacheKey(), q.Start, q.End)
		if cerr != nil || len(cached) == 0 {
			return nil, fmt.Errorf("fetch %s: %w", q.Symbol, err)
		}
		log.Warn().Err(err).Str("symbol", q.Symbol).Int("bars", len(cached)).
			Msg("upstream fetch failed, serving cached bars")
		if c.Metrics != nil {
			c.Metrics.CacheFallbacks.Inc()
		}
		return c.series(q, cached, "cache"), nil
	}

	if err := c.Recorder.RecordBars(q.cacheKey(), bars); err != nil {
		log.Warn().Err(err).Str("symbol", q.Symbol).Msg("cache bars failed")
	}
	log.Debug().Str("symbol", q.Symbol).Str("source", c.Fetcher.Name()).Int("bars", len(bars)).
		Dur("took", time.Since(start)).Msg("bars fetched")
	return c.series(q, bars, c.Fetcher.Name()), nil
}

func (c *Collector) series(q Query, bars []model.OHLCV, source string) *model.PriceSeries {
	return &model.PriceSeries{
		Symbol:    q.Symbol,
		Bars:      bars,
		Source:    source,
		Start:     q.Start,
		End:       q.End,
		FetchedAt: time.Now(),
	}
}

func (c *Collector) recordFetch(q Query, n int, took time.Duration, err error) {
	evt := &recorder.FetchEvent{
		Symbol:   q.Symbol,
		Source:   c.Fetcher.Name(),
		Start:    q.Start,
		End:      q.End,
		Bars:     n,
		Duration: took,
	}
	if err != nil {
		evt.Err = err.Error()
	}
	if rerr := c.Recorder.RecordFetch(evt); rerr != nil {
		log.Warn().Err(rerr).Str("symbol", q.Symbol).Msg("record fetch failed")
	}
}
