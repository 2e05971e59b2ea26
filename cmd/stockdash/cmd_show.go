package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"StockDash/internal/dashboard"
)

// requestFlags are the dashboard options shared by show and export.
type requestFlags struct {
	preset    string
	start     string
	end       string
	ma7       bool
	ma30      bool
	ema       bool
	rsi       bool
	bollinger bool
	macd      bool
	compare   []string
	chart     string
	weekly    bool
	normalize bool
	logScale  bool
	timeout   time.Duration
}

func (f *requestFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.preset, "preset", "None", "Date preset: None, 1-Month, 6-Months, 1-Year, 5-Years, Max")
	fs.StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD) with the None preset")
	fs.StringVar(&f.end, "end", "", "End date (YYYY-MM-DD) with the None preset")
	fs.BoolVar(&f.ma7, "ma7", false, "Draw the 7-day moving average")
	fs.BoolVar(&f.ma30, "ma30", false, "Draw the 30-day moving average")
	fs.BoolVar(&f.ema, "ema", false, "Draw the 20-day EMA")
	fs.BoolVar(&f.rsi, "rsi", false, "Compute RSI (14)")
	fs.BoolVar(&f.bollinger, "bollinger", false, "Compute Bollinger Bands (20)")
	fs.BoolVar(&f.macd, "macd", false, "Compute MACD (12,26,9)")
	fs.StringSliceVar(&f.compare, "compare", nil, "Comparison tickers")
	fs.StringVar(&f.chart, "chart", "candlestick", "Chart type: candlestick or line")
	fs.BoolVar(&f.weekly, "weekly", false, "Simplify to weekly bars")
	fs.BoolVar(&f.normalize, "normalize", false, "Rebase comparisons to 100 (default when comparing several tickers)")
	fs.BoolVar(&f.logScale, "log", false, "Logarithmic price axis")
	fs.DurationVar(&f.timeout, "timeout", 60*time.Second, "Fetch timeout")
}

func (f *requestFlags) request(fs *pflag.FlagSet, ticker string) (dashboard.Request, error) {
	req := dashboard.Request{
		Ticker:    strings.ToUpper(ticker),
		Preset:    f.preset,
		ShowMA7:   f.ma7,
		ShowMA30:  f.ma30,
		ShowEMA:   f.ema,
		RSI:       f.rsi,
		Bollinger: f.bollinger,
		MACD:      f.macd,
		Compare:   f.compare,
		ChartType: f.chart,
		Weekly:    f.weekly,
		LogScale:  f.logScale,
	}
	var err error
	if f.start != "" {
		if req.Start, err = time.Parse(dashboard.DateLayout, f.start); err != nil {
			return req, fmt.Errorf("--start: %w", err)
		}
	}
	if f.end != "" {
		if req.End, err = time.Parse(dashboard.DateLayout, f.end); err != nil {
			return req, fmt.Errorf("--end: %w", err)
		}
	}
	if fs.Changed("normalize") {
		n := f.normalize
		req.Normalize = &n
	}
	return req, nil
}

var (
	showFlags requestFlags
	showJSON  bool
)

var showCmd = &cobra.Command{
	Use:   "show [ticker]",
	Short: "Print the latest indicator values of a ticker",
	Example: `  stockdash show AAPL --preset 1-Year --rsi --macd
  stockdash show MSFT --compare AAPL,IBM --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showFlags.register(showCmd.Flags())
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the full dashboard as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := a.cfg.Defaults.Ticker
	if len(args) == 1 {
		ticker = args[0]
	}
	req, err := showFlags.request(cmd.Flags(), ticker)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), showFlags.timeout)
	defer cancel()
	d, err := a.builder.Build(ctx, req)
	if err != nil {
		return err
	}

	if showJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	fmt.Print(dashboard.FormatReport(d))
	return nil
}
