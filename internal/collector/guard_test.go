package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_PassesThrough(t *testing.T) {
	mock := &MockFetcher{Price: 10}
	g := NewGuard(mock, GuardConfig{})
	bars, err := g.FetchBars(context.Background(), Query{Symbol: "AAPL", Start: march(4), End: march(6)})
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, "mock", g.Name())
}

func TestGuard_TripsAfterConsecutiveFailures(t *testing.T) {
	mock := &MockFetcher{Err: errors.New("upstream down")}
	var states []gobreaker.State
	g := NewGuard(mock, GuardConfig{
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Minute,
		OnStateChange:       func(to gobreaker.State) { states = append(states, to) },
	})
	q := Query{Symbol: "AAPL", Start: march(4), End: march(6)}

	for i := 0; i < 2; i++ {
		_, err := g.FetchBars(context.Background(), q)
		assert.ErrorContains(t, err, "upstream down")
	}
	assert.Equal(t, gobreaker.StateOpen, g.State())
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, states)

	_, err := g.FetchBars(context.Background(), q)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, mock.Calls(), "open breaker does not call upstream")
}

func TestGuard_NoDataDoesNotTrip(t *testing.T) {
	mock := &MockFetcher{Err: fmt.Errorf("x: %w", ErrNoData)}
	g := NewGuard(mock, GuardConfig{ConsecutiveFailures: 1})
	q := Query{Symbol: "NOPE", Start: march(4), End: march(6)}

	for i := 0; i < 3; i++ {
		_, err := g.FetchBars(context.Background(), q)
		assert.ErrorIs(t, err, ErrNoData)
	}
	assert.Equal(t, gobreaker.StateClosed, g.State())
}

func TestGuard_RateLimitHonoursContext(t *testing.T) {
	g := NewGuard(&MockFetcher{Price: 1}, GuardConfig{RequestsPerSecond: 0.001, Burst: 1})
	q := Query{Symbol: "AAPL", Start: march(4), End: march(6)}

	_, err := g.FetchBars(context.Background(), q)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.FetchBars(ctx, q)
	assert.ErrorContains(t, err, "rate limit wait")
}
