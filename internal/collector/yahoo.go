package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"StockDash/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// toFloat converts a JSON number to float64; null and anything non-numeric become NaN.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return math.NaN()
}

// at returns values[i] or NaN when the upstream sent a short array.
func at(values []interface{}, i int) float64 {
	if i >= len(values) {
		return math.NaN()
	}
	return toFloat(values[i])
}

func (f *YahooFetcher) FetchBars(ctx context.Context, q Query) ([]model.OHLCV, error) {
	base := f.BaseURL
	if base == "" {
		base = yahooBaseURL
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history",
		strings.TrimRight(base, "/"), url.PathEscape(f.yahooSymbol(q.Symbol)), q.Start.Unix(), q.End.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo %s: %w", q.Symbol, ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", q.Symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	var adj []interface{}
	if q.Adjusted && len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}
	loc := time.UTC
	if tz, err := time.LoadLocation(result.Meta.ExchangeTimezoneName); err == nil && result.Meta.ExchangeTimezoneName != "" {
		loc = tz
	}

	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		bar := model.OHLCV{
			Time:   tradingDate(time.Unix(ts, 0).In(loc)),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  at(quote.Close, i),
			Volume: at(quote.Volume, i),
		}
		if math.IsNaN(bar.Open) && math.IsNaN(bar.High) && math.IsNaN(bar.Low) && math.IsNaN(bar.Close) {
			continue // skip null bars (holidays etc.)
		}
		if adj != nil {
			adjustBar(&bar, at(adj, i))
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return dedupe(bars), nil
}

// tradingDate keeps only the exchange-local calendar date, as midnight UTC.
func tradingDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// adjustBar rescales open/high/low/close by the adjusted-close ratio.
func adjustBar(b *model.OHLCV, adjClose float64) {
	if math.IsNaN(adjClose) || math.IsNaN(b.Close) || b.Close == 0 {
		return
	}
	ratio := adjClose / b.Close
	b.Open *= ratio
	b.High *= ratio
	b.Low *= ratio
	b.Close = adjClose
}

// dedupe keeps the last bar of each date; bars must be sorted.
func dedupe(bars []model.OHLCV) []model.OHLCV {
	if len(bars) < 2 {
		return bars
	}
	out := bars[:1]
	for _, b := range bars[1:] {
		if b.Time.Equal(out[len(out)-1].Time) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
