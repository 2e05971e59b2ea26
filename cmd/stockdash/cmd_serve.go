package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockDash/internal/scheduler"
	"StockDash/internal/server"
)

var warmOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dashboards over HTTP and refresh the watchlist on a schedule",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&warmOnStart, "warm", os.Getenv("RUN_ON_START") == "true",
		"Refresh the watchlist cache immediately on start")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	symbols := append([]string{a.cfg.Defaults.Ticker}, a.cfg.Watchlist...)
	sched := scheduler.NewScheduler(ctx, a.collector, symbols, a.cfg.Schedule.Lookback, a.metrics)
	if err := sched.Register(a.cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if warmOnStart {
		log.Info().Msg("warm start enabled, refreshing watchlist now")
		go sched.RunNow()
	}

	srv := server.New(a.cfg, a.builder, a.metrics)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping")
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("stockdash stopped")
	return nil
}
