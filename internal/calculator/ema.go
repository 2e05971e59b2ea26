package calculator

import (
	"fmt"
	"math"
)

// CalculateEMA computes the exponential moving average with smoothing factor
// alpha = 2/(span+1), seeded with the first close and without bias correction:
//
//	ema[0] = close[0]
//	ema[i] = alpha*close[i] + (1-alpha)*ema[i-1]
//
// NaN closes keep the previous value; the weight of the previous value keeps
// decaying across them. Leading NaNs stay NaN until the first valid close.
func CalculateEMA(closes []float64, span int) ([]float64, error) {
	if span < 1 {
		return nil, fmt.Errorf("%w: ema span %d must be >= 1", ErrInvalidParameter, span)
	}
	return ewm(closes, 2.0/float64(span+1)), nil
}

func ewm(values []float64, alpha float64) []float64 {
	out := make([]float64, len(values))
	current := math.NaN()
	decay := 1.0 // weight carried by current, relative to alpha for the next value
	for i, v := range values {
		switch {
		case math.IsNaN(current):
			current = v
			decay = 1.0
		case math.IsNaN(v):
			decay *= 1 - alpha
		case decay == 1.0:
			current = alpha*v + (1-alpha)*current
		default:
			// previous observations were separated by NaNs
			old := decay * (1 - alpha)
			current = (old*current + alpha*v) / (old + alpha)
			decay = 1.0
		}
		out[i] = current
	}
	return out
}
