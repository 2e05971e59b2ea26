// Package dashboard assembles the chart model of one ticker: the price frame
// with its indicator columns, comparison series, panel layout and colours.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"StockDash/internal/calculator"
	"StockDash/internal/collector"
	"StockDash/internal/config"
	"StockDash/internal/metrics"
	"StockDash/internal/model"
)

// maxParallelComparisons bounds concurrent comparison fetches.
const maxParallelComparisons = 4

// Dashboard is everything a client needs to draw the charts.
type Dashboard struct {
	Ticker          string               `json:"ticker"`
	Title           string               `json:"title"`
	Source          string               `json:"source"`
	Start           time.Time            `json:"start"`
	End             time.Time            `json:"end"`
	ChartType       string               `json:"chart_type"`
	Weekly          bool                 `json:"weekly"`
	LogScale        bool                 `json:"log_scale"`
	Frame           *Frame               `json:"frame"`
	Overlays        []string             `json:"overlays"`
	Panels          []Panel              `json:"panels"`
	VolumeColors    []string             `json:"volume_colors"`
	HistogramColors []string             `json:"histogram_colors,omitempty"`
	Comparisons     []Comparison         `json:"comparisons,omitempty"`
	Summary         *model.PeriodSummary `json:"summary,omitempty"`
	Warnings        []string             `json:"warnings,omitempty"`
}

// Comparison is the close series of another ticker drawn on the price panel.
type Comparison struct {
	Ticker     string   `json:"ticker"`
	Label      string   `json:"label"`
	Normalized bool     `json:"normalized"`
	Source     string   `json:"source"`
	Dates      []string `json:"dates"`
	Values     Values   `json:"values"`
}

type column struct {
	name   string
	values []float64
}

// Builder builds dashboards from collected bars.
type Builder struct {
	Collector  *collector.Collector
	Indicators config.Indicators
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(col *collector.Collector, ind config.Indicators, m *metrics.Metrics) *Builder {
	return &Builder{Collector: col, Indicators: ind, Metrics: m, Now: time.Now}
}

// Build fetches the requested ticker and assembles its dashboard.
func (b *Builder) Build(ctx context.Context, req Request) (*Dashboard, error) {
	d, err := b.build(ctx, req)
	if b.Metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		b.Metrics.DashboardsTotal.WithLabelValues(result).Inc()
	}
	return d, err
}

func (b *Builder) build(ctx context.Context, req Request) (*Dashboard, error) {
	req, err := req.normalized(b.now())
	if err != nil {
		return nil, err
	}

	series, err := b.Collector.Collect(ctx, collector.Query{Symbol: req.Ticker, Start: req.Start, End: req.End})
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", req.Ticker, err)
	}
	bars := series.Bars
	if req.Weekly {
		bars = collector.ResampleWeekly(bars)
	}

	frame := NewFrame(req.Ticker, bars)
	if err := b.addIndicators(frame, req); err != nil {
		return nil, err
	}

	d := &Dashboard{
		Ticker:    req.Ticker,
		Title:     title(req.Ticker, req.Compare),
		Source:    series.Source,
		Start:     req.Start,
		End:       req.End,
		ChartType: req.ChartType,
		Weekly:    req.Weekly,
		LogScale:  req.LogScale,
		Frame:     frame,
	}
	if series.Source == "cache" {
		d.Warnings = append(d.Warnings, "Data source unavailable. Showing cached data.")
	}
	if len(req.Compare) > 0 {
		if d.ChartType == ChartCandlestick {
			d.Warnings = append(d.Warnings, "Candlestick charts are only available for a single stock. Switching to Line Chart.")
			d.ChartType = ChartLine
		}
		comps, warnings := b.compare(ctx, req)
		d.Comparisons = comps
		d.Warnings = append(d.Warnings, warnings...)
	}

	d.Overlays = overlays(req, d.ChartType)
	d.Panels = panels(req)
	d.VolumeColors = volumeColors(frame)
	if hist, ok := frame.Column(model.FieldMACDHist); ok {
		d.HistogramColors = histogramColors(hist)
	}
	if summary, err := calculator.CalculateSummary(bars); err == nil {
		d.Summary = &summary
	}

	log.Info().Str("symbol", req.Ticker).Str("source", series.Source).Int("bars", frame.Len()).
		Int("compare", len(d.Comparisons)).Msg("dashboard built")
	return d, nil
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// addIndicators computes the indicator groups concurrently over the shared
// read-only closes and merges them into the frame in a fixed column order.
func (b *Builder) addIndicators(f *Frame, req Request) error {
	closes := []float64(f.Close)
	ind := b.Indicators

	var (
		ma7, ma30, ema, rsi []float64
		bands               model.BollingerBands
		macd                model.MACD
		g                   errgroup.Group
	)
	g.Go(b.timed("sma", func() (err error) {
		if ma7, err = calculator.CalculateSMA(closes, ind.ShortMA); err != nil {
			return err
		}
		ma30, err = calculator.CalculateSMA(closes, ind.LongMA)
		return err
	}))
	g.Go(b.timed("ema", func() (err error) {
		ema, err = calculator.CalculateEMA(closes, ind.EMASpan)
		return err
	}))
	if req.Bollinger {
		g.Go(b.timed("bollinger", func() (err error) {
			bands, err = calculator.CalculateBollinger(closes, ind.BollingerWindow)
			return err
		}))
	}
	if req.RSI {
		g.Go(b.timed("rsi", func() (err error) {
			rsi, err = calculator.CalculateRSI(closes, ind.RSIWindow)
			return err
		}))
	}
	if req.MACD {
		g.Go(b.timed("macd", func() (err error) {
			macd, err = calculator.CalculateMACD(closes, ind.MACDShort, ind.MACDLong, ind.MACDSignal)
			return err
		}))
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("compute indicators: %w", err)
	}

	cols := []column{
		{model.FieldMA7, ma7},
		{model.FieldMA30, ma30},
		{model.FieldEMA20, ema},
	}
	if req.Bollinger {
		cols = append(cols,
			column{model.FieldBBMiddle, bands.Middle},
			column{model.FieldBBUpper, bands.Upper},
			column{model.FieldBBLower, bands.Lower})
	}
	if req.RSI {
		cols = append(cols, column{model.FieldRSI, rsi})
	}
	if req.MACD {
		cols = append(cols,
			column{model.FieldMACD, macd.Line},
			column{model.FieldSignalLine, macd.Signal},
			column{model.FieldMACDHist, macd.Histogram})
	}
	for _, c := range cols {
		if err := f.Set(c.name, c.values); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) timed(name string, fn func() error) func() error {
	return func() error {
		defer b.Metrics.ObserveIndicator(name, time.Now())
		return fn()
	}
}

// compare collects the comparison tickers in parallel. A ticker that cannot
// be fetched becomes a warning instead of failing the dashboard.
func (b *Builder) compare(ctx context.Context, req Request) ([]Comparison, []string) {
	results := make([]*Comparison, len(req.Compare))
	errs := make([]error, len(req.Compare))
	normalize := req.normalize()

	var g errgroup.Group
	g.SetLimit(maxParallelComparisons)
	for i, ticker := range req.Compare {
		g.Go(func() error {
			series, err := b.Collector.Collect(ctx, collector.Query{
				Symbol: ticker, Start: req.Start, End: req.End, Adjusted: true,
			})
			if err != nil {
				errs[i] = err
				return nil
			}
			bars := series.Bars
			if req.Weekly {
				bars = collector.ResampleWeekly(bars)
			}
			results[i] = newComparison(ticker, series.Source, bars, normalize)
			return nil
		})
	}
	_ = g.Wait()

	var comps []Comparison
	var warnings []string
	for i, ticker := range req.Compare {
		if errs[i] != nil {
			log.Warn().Err(errs[i]).Str("symbol", ticker).Msg("comparison fetch failed")
			if errors.Is(errs[i], collector.ErrNoData) {
				warnings = append(warnings, fmt.Sprintf("No data returned for %s. Check ticker or date range.", ticker))
			} else {
				warnings = append(warnings, fmt.Sprintf("Could not load %s for comparison.", ticker))
			}
			continue
		}
		comps = append(comps, *results[i])
	}
	return comps, warnings
}

func newComparison(ticker, source string, bars []model.OHLCV, normalize bool) *Comparison {
	c := &Comparison{
		Ticker:     ticker,
		Source:     source,
		Normalized: normalize,
		Dates:      make([]string, len(bars)),
		Values:     make(Values, len(bars)),
	}
	for i, bar := range bars {
		c.Dates[i] = bar.Time.Format(DateLayout)
		c.Values[i] = bar.Close
	}
	if normalize {
		c.Values = rebase(c.Values)
		c.Label = ticker + " Normalized (100=Start)"
	} else {
		c.Label = ticker + " Actual Close"
	}
	return c
}

// rebase scales values so the first valid value becomes 100. A series that
// starts at zero or has no valid value is entirely NaN.
func rebase(values Values) Values {
	base := math.NaN()
	for _, v := range values {
		if !math.IsNaN(v) {
			base = v
			break
		}
	}
	out := make(Values, len(values))
	for i, v := range values {
		if math.IsNaN(base) || base == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = v / base * 100
	}
	return out
}
