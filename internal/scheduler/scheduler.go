package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"StockDash/internal/collector"
	"StockDash/internal/metrics"
)

// Scheduler keeps the bar cache of the watched tickers warm.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Metrics   *metrics.Metrics
	Symbols   []string
	Lookback  string // date preset covered by each refresh
	Ctx       context.Context
	Now       func() time.Time
}

// NewScheduler creates a new Scheduler for the given tickers; duplicates are dropped.
func NewScheduler(ctx context.Context, col *collector.Collector, symbols []string, lookback string, m *metrics.Metrics) *Scheduler {
	seen := make(map[string]bool)
	var uniq []string
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		uniq = append(uniq, s)
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Metrics:   m,
		Symbols:   uniq,
		Lookback:  lookback,
		Ctx:       ctx,
		Now:       time.Now,
	}
}

// Register schedules the refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, _, err := collector.ResolveRange(s.Lookback, time.Time{}, time.Time{}, time.Now()); err != nil {
		return fmt.Errorf("refresh lookback: %w", err)
	}
	if _, err := s.Cron.AddFunc(refreshCron, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("symbols", len(s.Symbols)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow refreshes every symbol immediately, in both the raw and the
// adjusted variant, and returns how many fetches failed.
func (s *Scheduler) RunNow() int {
	start, end, err := collector.ResolveRange(s.Lookback, time.Time{}, time.Time{}, s.Now())
	if err != nil {
		log.Error().Err(err).Str("lookback", s.Lookback).Msg("refresh range")
		return len(s.Symbols)
	}

	log.Info().Strs("symbols", s.Symbols).Time("start", start).Time("end", end).Msg("refreshing bar cache")
	failed := 0
	for _, sym := range s.Symbols {
		for _, adjusted := range []bool{false, true} {
			if s.Ctx.Err() != nil {
				return failed
			}
			series, err := s.Collector.Collect(s.Ctx, collector.Query{Symbol: sym, Start: start, End: end, Adjusted: adjusted})
			if err != nil {
				failed++
				s.count("error")
				log.Warn().Err(err).Str("symbol", sym).Bool("adjusted", adjusted).Msg("refresh failed")
				continue
			}
			s.count("ok")
			log.Debug().Str("symbol", sym).Bool("adjusted", adjusted).Int("bars", len(series.Bars)).
				Str("source", series.Source).Msg("refreshed")
		}
	}
	return failed
}

func (s *Scheduler) count(result string) {
	if s.Metrics != nil {
		s.Metrics.RefreshTotal.WithLabelValues(result).Inc()
	}
}
