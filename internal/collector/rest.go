package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"StockDash/internal/model"
)

// RESTFetcher implements Fetcher against a plain JSON bar endpoint:
//
//	GET {base}/api/v1/bars/daily?symbol=AAPL&start=2024-01-02&end=2024-02-01[&adjusted=true]
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of the bar endpoint. Pointer fields
// let missing values come through as NaN.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

func (f *RESTFetcher) FetchBars(ctx context.Context, q Query) ([]model.OHLCV, error) {
	params := url.Values{}
	params.Set("symbol", q.Symbol)
	params.Set("start", q.Start.Format("2006-01-02"))
	params.Set("end", q.End.Format("2006-01-02"))
	if q.Adjusted {
		params.Set("adjusted", "true")
	}
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("rest %s: %w", q.Symbol, ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.OHLCV, len(raw))
	for i, rb := range raw {
		bars[i] = model.OHLCV{
			Time:   tradingDate(time.Unix(rb.Timestamp, 0).UTC()),
			Open:   deref(rb.Open),
			High:   deref(rb.High),
			Low:    deref(rb.Low),
			Close:  deref(rb.Close),
			Volume: deref(rb.Volume),
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return dedupe(bars), nil
}

func deref(v *float64) float64 {
	if v == nil {
		return toFloat(nil)
	}
	return *v
}
