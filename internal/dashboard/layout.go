package dashboard

import (
	"math"
	"strings"

	"StockDash/internal/model"
)

// Panel names.
const (
	PanelPrice  = "price"
	PanelVolume = "volume"
	PanelRSI    = "rsi"
	PanelMACD   = "macd"
)

// Bar colours.
const (
	ColorUp   = "green"
	ColorDown = "red"
)

// RSI guide levels.
const (
	RSIOverbought = 70
	RSIOversold   = 30
)

// Panel is one vertically stacked subplot sharing the date axis.
type Panel struct {
	Name     string    `json:"name"`
	Row      int       `json:"row"`
	Height   float64   `json:"height"`
	Series   []string  `json:"series,omitempty"`
	YRange   []float64 `json:"y_range,omitempty"`
	Guides   []float64 `json:"guides,omitempty"`
	LogScale bool      `json:"log_scale,omitempty"`
}

// panels lays out the subplots: price and volume always, then RSI and MACD
// sharing the remaining fifth of the height.
func panels(req Request) []Panel {
	out := []Panel{
		{Name: PanelPrice, Row: 1, Height: 0.6, Series: []string{"Close"}, LogScale: req.LogScale},
		{Name: PanelVolume, Row: 2, Height: 0.2, Series: []string{"Volume"}},
	}
	lower := 0.2
	if req.RSI && req.MACD {
		lower = 0.1
	}
	if req.RSI {
		out = append(out, Panel{
			Name:   PanelRSI,
			Row:    len(out) + 1,
			Height: lower,
			Series: []string{model.FieldRSI},
			YRange: []float64{0, 100},
			Guides: []float64{RSIOverbought, RSIOversold},
		})
	}
	if req.MACD {
		out = append(out, Panel{
			Name:   PanelMACD,
			Row:    len(out) + 1,
			Height: lower,
			Series: []string{model.FieldMACDHist, model.FieldMACD, model.FieldSignalLine},
		})
	}
	return out
}

// overlays lists the derived columns drawn over the price panel. Moving
// averages only show on the line chart; the bands show on both.
func overlays(req Request, chartType string) []string {
	var out []string
	if chartType == ChartLine {
		if req.ShowMA7 {
			out = append(out, model.FieldMA7)
		}
		if req.ShowMA30 {
			out = append(out, model.FieldMA30)
		}
		if req.ShowEMA {
			out = append(out, model.FieldEMA20)
		}
	}
	if req.Bollinger {
		out = append(out, model.FieldBBUpper, model.FieldBBLower, model.FieldBBMiddle)
	}
	return out
}

// volumeColors marks a bar green when it closed above its open.
func volumeColors(f *Frame) []string {
	colors := make([]string, f.Len())
	for i := range colors {
		if f.Close[i] > f.Open[i] {
			colors[i] = ColorUp
		} else {
			colors[i] = ColorDown
		}
	}
	return colors
}

// histogramColors marks non-negative histogram bars green; NaN counts as zero.
func histogramColors(hist []float64) []string {
	colors := make([]string, len(hist))
	for i, v := range hist {
		if math.IsNaN(v) {
			v = 0
		}
		if v >= 0 {
			colors[i] = ColorUp
		} else {
			colors[i] = ColorDown
		}
	}
	return colors
}

func title(ticker string, compare []string) string {
	if len(compare) == 0 {
		return ticker + " Closing Price"
	}
	return ticker + " vs " + strings.Join(compare, ", ") + " Closing Prices"
}
