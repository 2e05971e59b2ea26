package model

import "time"

// OHLCV represents a single daily (or resampled) bar.
// Fields the upstream left empty are NaN.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the bars fetched for one ticker over one date range.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	Source    string // fetcher name, or "cache" when served from the recorder
	Start     time.Time
	End       time.Time
	FetchedAt time.Time
}

// Closes returns the close prices of bars in order.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
