package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/spf13/cobra"

	"StockDash/internal/collector"
	"StockDash/internal/config"
	"StockDash/internal/dashboard"
	"StockDash/internal/logger"
	"StockDash/internal/metrics"
	"StockDash/internal/recorder"
)

var (
	configPath string
	logLevel   string
	pretty     bool
)

var rootCmd = &cobra.Command{
	Use:   "stockdash",
	Short: "Stock market dashboard with technical indicators",
	Long: `StockDash fetches daily bars for a ticker, computes moving averages,
RSI, Bollinger Bands and MACD, and serves the result as chart data,
CSV or Excel downloads.`,
	SilenceUsage: true,
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Human-readable console logs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired components shared by every command.
type app struct {
	cfg       *config.Config
	metrics   *metrics.Metrics
	recorder  recorder.Recorder
	collector *collector.Collector
	builder   *dashboard.Builder
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger.Init("stockdash", level, pretty || cfg.Log.Pretty, os.Stderr)

	m := metrics.New()

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "rest":
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	guarded := collector.NewGuard(fetcher, collector.GuardConfig{
		RequestsPerSecond: cfg.DataSource.RequestsPerSecond,
		Burst:             cfg.DataSource.Burst,
		OpenTimeout:       cfg.DataSource.BreakerTimeout,
		OnStateChange: func(to gobreaker.State) {
			m.BreakerState.Set(float64(to))
		},
	})
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	col := collector.NewCollector(guarded, rec, m)
	return &app{
		cfg:       cfg,
		metrics:   m,
		recorder:  rec,
		collector: col,
		builder:   dashboard.NewBuilder(col, cfg.Indicators, m),
	}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Warn().Err(err).Msg("close recorder")
	}
}
