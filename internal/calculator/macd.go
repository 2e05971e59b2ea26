package calculator

import (
	"fmt"

	"StockDash/internal/model"
)

// Default MACD spans.
const (
	DefaultMACDShort  = 12
	DefaultMACDLong   = 26
	DefaultMACDSignal = 9
)

// CalculateMACD computes the MACD line (short EMA minus long EMA), its signal
// line (EMA of the MACD line) and the histogram (line minus signal).
// short >= long is accepted and simply inverts the line.
func CalculateMACD(closes []float64, short, long, signal int) (model.MACD, error) {
	if signal < 1 {
		return model.MACD{}, fmt.Errorf("%w: macd signal span %d must be >= 1", ErrInvalidParameter, signal)
	}
	shortEMA, err := CalculateEMA(closes, short)
	if err != nil {
		return model.MACD{}, fmt.Errorf("macd short: %w", err)
	}
	longEMA, err := CalculateEMA(closes, long)
	if err != nil {
		return model.MACD{}, fmt.Errorf("macd long: %w", err)
	}

	line := make([]float64, len(closes))
	for i := range line {
		line[i] = shortEMA[i] - longEMA[i]
	}
	sig, _ := CalculateEMA(line, signal)

	hist := make([]float64, len(line))
	for i := range hist {
		hist[i] = line[i] - sig[i]
	}
	return model.MACD{Line: line, Signal: sig, Histogram: hist}, nil
}
