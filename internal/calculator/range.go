package calculator

import (
	"errors"
	"math"

	"StockDash/internal/model"
)

// CalculateRange scans every bar and returns the highest high and lowest low.
// Bars with a NaN high or low are ignored.
func CalculateRange(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if !math.IsNaN(b.High) && b.High > high {
			high = b.High
		}
		if !math.IsNaN(b.Low) && b.Low < low {
			low = b.Low
		}
	}
	if math.IsInf(high, -1) || math.IsInf(low, 1) {
		return 0, 0, errors.New("no valid high/low in bars")
	}
	return high, low, nil
}

// CalculatePosition returns where the current price sits within the range (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// CalculateSummary describes the period covered by bars: range, position of
// the last valid close within it and the change from the first valid close.
func CalculateSummary(bars []model.OHLCV) (model.PeriodSummary, error) {
	high, low, err := CalculateRange(bars)
	if err != nil {
		return model.PeriodSummary{}, err
	}
	closes := model.Closes(bars)
	first, last := math.NaN(), math.NaN()
	for _, c := range closes {
		if math.IsNaN(c) {
			continue
		}
		if math.IsNaN(first) {
			first = c
		}
		last = c
	}
	if math.IsNaN(last) {
		return model.PeriodSummary{}, errors.New("no valid close in bars")
	}
	pos, err := CalculatePosition(last, high, low)
	if err != nil {
		return model.PeriodSummary{}, err
	}
	summary := model.PeriodSummary{LastClose: last, High: high, Low: low, Position: pos}
	if first != 0 {
		summary.Change = (last - first) / first * 100
	}
	return summary, nil
}
