package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"StockDash/internal/collector"
)

// ErrInvalidRequest is returned when a dashboard request cannot be served.
var ErrInvalidRequest = errors.New("invalid dashboard request")

// Chart types.
const (
	ChartCandlestick = "candlestick"
	ChartLine        = "line"
)

// Request describes one dashboard view.
type Request struct {
	Ticker string
	Preset string
	Start  time.Time // used with the None preset; zero means the default
	End    time.Time

	// Overlay visibility. The moving averages are always computed and
	// exported; these only decide what the line chart draws.
	ShowMA7  bool
	ShowMA30 bool
	ShowEMA  bool

	// Indicator panels, computed only when requested.
	RSI       bool
	Bollinger bool
	MACD      bool

	Compare   []string
	ChartType string
	Weekly    bool
	// Normalize rebases comparisons to 100 at their first close.
	// Nil means on when more than one ticker is compared.
	Normalize *bool
	LogScale  bool
}

// normalized returns a cleaned copy of r with the resolved date range.
func (r Request) normalized(now time.Time) (Request, error) {
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))
	if r.Ticker == "" {
		return r, fmt.Errorf("%w: ticker is required", ErrInvalidRequest)
	}

	switch strings.ToLower(r.ChartType) {
	case "", ChartCandlestick:
		r.ChartType = ChartCandlestick
	case ChartLine:
		r.ChartType = ChartLine
	default:
		return r, fmt.Errorf("%w: chart type %q", ErrInvalidRequest, r.ChartType)
	}

	start, end, err := collector.ResolveRange(r.Preset, r.Start, r.End, now)
	if err != nil {
		return r, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	r.Start, r.End = start, end

	seen := map[string]bool{r.Ticker: true}
	var compare []string
	for _, t := range r.Compare {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		compare = append(compare, t)
	}
	r.Compare = compare
	return r, nil
}

func (r Request) normalize() bool {
	if r.Normalize != nil {
		return *r.Normalize
	}
	return len(r.Compare) > 1
}
