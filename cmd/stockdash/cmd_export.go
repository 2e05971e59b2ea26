package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockDash/internal/export"
)

var (
	exportFlags  requestFlags
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [ticker]",
	Short: "Write the bars and indicator columns of a ticker to CSV or Excel",
	Example: `  stockdash export AAPL --format xlsx --rsi --bollinger --macd
  stockdash export TSLA --preset 5-Years --weekly --out tsla.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportFlags.register(exportCmd.Flags())
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatCSV, "Output format: csv or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default data.csv or <TICKER>_stock_data.xlsx)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format != export.FormatCSV && format != export.FormatXLSX {
		return fmt.Errorf("%w: %q", export.ErrUnknownFormat, exportFormat)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := a.cfg.Defaults.Ticker
	if len(args) == 1 {
		ticker = args[0]
	}
	req, err := exportFlags.request(cmd.Flags(), ticker)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), exportFlags.timeout)
	defer cancel()
	d, err := a.builder.Build(ctx, req)
	if err != nil {
		return err
	}
	for _, w := range d.Warnings {
		log.Warn().Msg(w)
	}

	out := exportOut
	if out == "" {
		out = export.FileName(d.Ticker, format)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := export.Write(f, format, d.Frame); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.metrics.ExportsTotal.WithLabelValues(format).Inc()
	log.Info().Str("file", out).Int("rows", d.Frame.Len()).Msg("export written")
	return nil
}
