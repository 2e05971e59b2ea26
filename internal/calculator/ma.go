// Package calculator implements the technical indicators drawn on the dashboard.
//
// Every function is a pure transform over an ordered slice of closes and
// returns a new slice of the same length. Positions without a value are NaN.
package calculator

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when a window or span is out of range.
var ErrInvalidParameter = errors.New("invalid parameter")

// CalculateSMA computes the simple moving average with a shrinking window:
// position i averages the closes at max(0, i-window+1)..i. NaN closes are
// skipped; a window with no valid close yields NaN.
func CalculateSMA(closes []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: sma window %d must be >= 1", ErrInvalidParameter, window)
	}
	out := make([]float64, len(closes))
	for i := range closes {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		valid := make([]float64, 0, i+1-start)
		for _, c := range closes[start : i+1] {
			if !math.IsNaN(c) {
				valid = append(valid, c)
			}
		}
		if len(valid) == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = mean(valid)
	}
	return out, nil
}

// rollingMean is the strict-window mean: NaN until window values exist,
// and NaN for any window containing a NaN.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = mean(values[i-window+1 : i+1])
	}
	return out
}

// mean is NaN if any value is NaN. A constant run returns its value exactly,
// otherwise the sum is Kahan-compensated.
func mean(values []float64) float64 {
	sum, comp := 0.0, 0.0
	constant := true
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN()
		}
		if v != values[0] {
			constant = false
		}
		y := v - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}
	if constant {
		return values[0]
	}
	return sum / float64(len(values))
}

// nanSeries returns a slice of n NaNs.
func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
