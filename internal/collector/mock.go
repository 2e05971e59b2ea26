package collector

import (
	"context"
	"sync"
	"time"

	"StockDash/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Data  map[string][]model.OHLCV // per symbol; generated bars when absent
	Err   error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchBars ran.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) FetchBars(_ context.Context, q Query) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Data[q.Symbol]; ok {
		var out []model.OHLCV
		for _, b := range bars {
			if !b.Time.Before(q.Start) && b.Time.Before(q.End) {
				out = append(out, b)
			}
		}
		return out, nil
	}
	return GenerateMockBars(m.Price, q.Start, q.End), nil
}

// GenerateMockBars produces one weekday bar per day in [start, end) with a
// gentle drift around basePrice.
func GenerateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for d := tradingDate(start); d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i%20-10)*0.001 + float64(i)*0.0005)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
