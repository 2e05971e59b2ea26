package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"StockDash/internal/model"
)

// GuardConfig tunes the limiter and breaker placed in front of a Fetcher.
type GuardConfig struct {
	RequestsPerSecond float64
	Burst             int
	// ConsecutiveFailures trips the breaker; zero means 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// OnStateChange is notified with the new breaker state.
	OnStateChange func(to gobreaker.State)
}

// Guard wraps a Fetcher with a token-bucket rate limiter and a circuit breaker.
type Guard struct {
	next    Fetcher
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuard creates a guarded Fetcher. A non-positive rate disables limiting.
func NewGuard(next Fetcher, cfg GuardConfig) *Guard {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Unknown tickers and cancelled requests say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoData) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("source", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(to)
			}
		},
	}

	return &Guard{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (g *Guard) Name() string { return g.next.Name() }

// State reports the breaker state.
func (g *Guard) State() gobreaker.State { return g.breaker.State() }

func (g *Guard) FetchBars(ctx context.Context, q Query) ([]model.OHLCV, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	res, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.FetchBars(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	bars, _ := res.([]model.OHLCV)
	return bars, nil
}
