package model

// Derived column names, as exposed to the chart and the exports.
const (
	FieldMA7        = "7MA"
	FieldMA30       = "30MA"
	FieldEMA20      = "EMA20"
	FieldRSI        = "RSI"
	FieldBBUpper    = "BB_Upper"
	FieldBBMiddle   = "BB_Middle"
	FieldBBLower    = "BB_Lower"
	FieldMACD       = "MACD"
	FieldSignalLine = "Signal_Line"
	FieldMACDHist   = "MACD_Hist"
)

// BollingerBands holds the three band sequences, aligned to the input closes.
type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// MACD holds the MACD line, its signal line and the histogram.
type MACD struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// PeriodSummary describes the price range covered by a series.
type PeriodSummary struct {
	LastClose float64 `json:"last_close"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Position  float64 `json:"position"` // 0.0 ~ 1.0
	Change    float64 `json:"change_pct"`
}
