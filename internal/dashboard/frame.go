package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"StockDash/internal/model"
)

// DateLayout is how bar dates are rendered in JSON and exports.
const DateLayout = "2006-01-02"

// Values is a numeric column; NaN encodes as JSON null.
type Values []float64

func (v Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			b.WriteString("null")
			continue
		}
		b.Write(strconv.AppendFloat(nil, f, 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

// Frame is the price series of one ticker augmented with derived columns,
// every column positionally aligned to Dates.
type Frame struct {
	Symbol string
	Dates  []time.Time
	Open   Values
	High   Values
	Low    Values
	Close  Values
	Volume Values

	names []string
	cols  map[string]Values
}

// NewFrame splits bars into columns.
func NewFrame(symbol string, bars []model.OHLCV) *Frame {
	n := len(bars)
	f := &Frame{
		Symbol: symbol,
		Dates:  make([]time.Time, n),
		Open:   make(Values, n),
		High:   make(Values, n),
		Low:    make(Values, n),
		Close:  make(Values, n),
		Volume: make(Values, n),
		cols:   make(map[string]Values),
	}
	for i, b := range bars {
		f.Dates[i] = b.Time
		f.Open[i] = b.Open
		f.High[i] = b.High
		f.Low[i] = b.Low
		f.Close[i] = b.Close
		f.Volume[i] = b.Volume
	}
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Dates) }

// Set adds or replaces a derived column.
func (f *Frame) Set(name string, values []float64) error {
	if len(values) != f.Len() {
		return fmt.Errorf("column %s has %d values, frame has %d rows", name, len(values), f.Len())
	}
	if _, ok := f.cols[name]; !ok {
		f.names = append(f.names, name)
	}
	f.cols[name] = values
	return nil
}

// Column returns a derived column by name.
func (f *Frame) Column(name string) (Values, bool) {
	v, ok := f.cols[name]
	return v, ok
}

// Names lists the derived columns in the order they were added.
func (f *Frame) Names() []string {
	return append([]string(nil), f.names...)
}

// Header is the export header: the bar fields followed by the derived columns.
func (f *Frame) Header() []string {
	return append([]string{"Date", "Open", "High", "Low", "Close", "Volume"}, f.names...)
}

// Row returns the numeric cells of row i in Header order, after the date.
func (f *Frame) Row(i int) []float64 {
	row := []float64{f.Open[i], f.High[i], f.Low[i], f.Close[i], f.Volume[i]}
	for _, name := range f.names {
		row = append(row, f.cols[name][i])
	}
	return row
}

func (f *Frame) MarshalJSON() ([]byte, error) {
	dates := make([]string, len(f.Dates))
	for i, d := range f.Dates {
		dates[i] = d.Format(DateLayout)
	}
	columns := map[string]Values{
		"Open": f.Open, "High": f.High, "Low": f.Low, "Close": f.Close, "Volume": f.Volume,
	}
	for name, v := range f.cols {
		columns[name] = v
	}
	return json.Marshal(struct {
		Symbol  string            `json:"symbol"`
		Dates   []string          `json:"dates"`
		Order   []string          `json:"order"`
		Columns map[string]Values `json:"columns"`
	}{f.Symbol, dates, f.Header()[1:], columns})
}
