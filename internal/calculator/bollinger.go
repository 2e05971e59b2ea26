package calculator

import (
	"fmt"
	"math"

	"StockDash/internal/model"
)

const (
	// DefaultBollingerWindow is the look-back used by the dashboard.
	DefaultBollingerWindow = 20
	bandWidth              = 2.0
)

// CalculateBollinger computes Bollinger Bands over a strict window: the middle
// band is the window mean and the outer bands sit two sample standard
// deviations away. The first window-1 positions are NaN, as is any window
// holding a NaN close. A one-bar window has zero deviation.
func CalculateBollinger(closes []float64, window int) (model.BollingerBands, error) {
	if window < 1 {
		return model.BollingerBands{}, fmt.Errorf("%w: bollinger window %d must be >= 1", ErrInvalidParameter, window)
	}
	n := len(closes)
	bands := model.BollingerBands{
		Upper:  nanSeries(n),
		Middle: rollingMean(closes, window),
		Lower:  nanSeries(n),
	}
	for i := window - 1; i < n; i++ {
		mid := bands.Middle[i]
		if math.IsNaN(mid) {
			continue
		}
		sigma := sampleStdDev(closes[i-window+1:i+1], mid)
		bands.Upper[i] = mid + bandWidth*sigma
		bands.Lower[i] = mid - bandWidth*sigma
	}
	return bands, nil
}

// sampleStdDev uses the N-1 denominator and never returns a negative value.
// A window of equal values has zero deviation.
func sampleStdDev(values []float64, mid float64) float64 {
	if len(values) < 2 || isConstant(values) {
		return 0
	}
	ss := 0.0
	for _, v := range values {
		d := v - mid
		ss += d * d
	}
	variance := ss / float64(len(values)-1)
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance)
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
