package calculator

import (
	"fmt"
	"math"
)

// DefaultRSIWindow is the look-back used by the dashboard.
const DefaultRSIWindow = 14

// CalculateRSI computes the Relative Strength Index from plain rolling means
// of gains and losses (no Wilder smoothing). The first value appears once
// window price changes exist, so positions 0..window-1 are NaN.
// A change involving a NaN close counts as neither gain nor loss.
func CalculateRSI(closes []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: rsi window %d must be >= 1", ErrInvalidParameter, window)
	}
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		switch {
		case delta > 0:
			gains[i] = delta
		case delta < 0:
			losses[i] = -delta
		}
	}

	out := nanSeries(n)
	for i := window; i < n; i++ {
		avgGain := mean(gains[i-window+1 : i+1])
		avgLoss := mean(losses[i-window+1 : i+1])
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	return math.Max(0, math.Min(100, rsi))
}
