package dashboard

import (
	"fmt"
	"math"
	"strings"

	"StockDash/internal/model"
)

// FormatReport renders the latest row of a dashboard as plain text.
func FormatReport(d *Dashboard) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 %s | %s ~ %s", d.Title, d.Start.Format(DateLayout), d.End.Format(DateLayout)))
	if d.Weekly {
		b.WriteString(" (weekly)")
	}
	b.WriteString(fmt.Sprintf("\nsource: %s, bars: %d\n\n", d.Source, d.Frame.Len()))

	n := d.Frame.Len()
	if n == 0 {
		return b.String()
	}
	last := n - 1
	b.WriteString(fmt.Sprintf("Date:   %s\n", d.Frame.Dates[last].Format(DateLayout)))
	b.WriteString(fmt.Sprintf("Close:  %s (O %s H %s L %s)\n",
		num(d.Frame.Close[last]), num(d.Frame.Open[last]), num(d.Frame.High[last]), num(d.Frame.Low[last])))
	b.WriteString(fmt.Sprintf("Volume: %s\n", num(d.Frame.Volume[last])))

	// Indicators
	for _, name := range d.Frame.Names() {
		v, _ := d.Frame.Column(name)
		b.WriteString(fmt.Sprintf("  %-12s %s\n", name, num(v[last])))
	}
	if rsi, ok := d.Frame.Column(model.FieldRSI); ok && !math.IsNaN(rsi[last]) {
		switch {
		case rsi[last] >= RSIOverbought:
			b.WriteString("  RSI overbought\n")
		case rsi[last] <= RSIOversold:
			b.WriteString("  RSI oversold\n")
		}
	}

	if s := d.Summary; s != nil {
		b.WriteString(fmt.Sprintf("\nRange:  %.2f ~ %.2f (position %.0f%%)\n", s.Low, s.High, s.Position*100))
		b.WriteString(fmt.Sprintf("Change: %+.2f%%\n", s.Change))
	}

	for _, c := range d.Comparisons {
		b.WriteString(fmt.Sprintf("\n%s: %s", c.Label, num(lastValid(c.Values))))
	}
	if len(d.Comparisons) > 0 {
		b.WriteString("\n")
	}

	for _, w := range d.Warnings {
		b.WriteString(fmt.Sprintf("\n⚠️ %s", w))
	}
	if len(d.Warnings) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func lastValid(values []float64) float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i]
		}
	}
	return math.NaN()
}
