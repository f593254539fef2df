// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/veracite/veracite/internal/logging"
	"github.com/veracite/veracite/internal/metrics"
)

// ClientConfig configures the time-boxed adapter client.
type ClientConfig struct {
	// Timeout is the hard per-run deadline. Default: 30s.
	Timeout time.Duration

	// BreakerMaxRequests is the number of probe requests allowed in the
	// half-open state. Default: 1.
	BreakerMaxRequests uint32

	// BreakerInterval is the closed-state measurement window. Default: 1m.
	BreakerInterval time.Duration

	// BreakerTimeout is how long the circuit stays open before probing.
	// Default: 2m.
	BreakerTimeout time.Duration
}

// DefaultClientConfig returns the production defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:            30 * time.Second,
		BreakerMaxRequests: 1,
		BreakerInterval:    time.Minute,
		BreakerTimeout:     2 * time.Minute,
	}
}

// Client wraps an Adapter with a hard timeout and a circuit breaker.
//
// A run exceeding the timeout returns ErrTimeout; a run rejected by the
// open breaker returns ErrUnavailable. Both are degradation conditions the
// caller answers with tier fallback. ErrInvalidInput passes through and is
// NOT counted as a breaker failure: bad request data says nothing about the
// scoring runtime's health.
//
// DETERMINISM NOTE: the breaker uses real time for its interval and timeout
// bookkeeping. Tests exercise the wrapped adapter directly or use short
// windows; the timing governs recovery, not data integrity.
type Client struct {
	inner Adapter
	cb    *gobreaker.CircuitBreaker[*RunResult]
	cfg   ClientConfig
	name  string
}

// NewClient creates a Client around the given Adapter implementation.
func NewClient(inner Adapter, cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BreakerMaxRequests == 0 {
		cfg.BreakerMaxRequests = 1
	}
	if cfg.BreakerInterval <= 0 {
		cfg.BreakerInterval = time.Minute
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 2 * time.Minute
	}

	cbName := "scoring-adapter"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(stateToFloat(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[*RunResult](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		// Bulk runs are infrequent; trip on a short consecutive-failure
		// streak rather than a rate over a large sample.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).
				Msg("scoring adapter circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		// Client-fault inputs don't open the circuit.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrInvalidInput)
		},
	})

	return &Client{
		inner: inner,
		cb:    cb,
		cfg:   cfg,
		name:  cbName,
	}
}

// ScoreNotes implements Adapter with timeout and breaker protection.
func (c *Client) ScoreNotes(ctx context.Context, req *RunRequest) (*RunResult, error) {
	start := time.Now()

	result, err := c.cb.Execute(func() (*RunResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		res, runErr := c.inner.ScoreNotes(runCtx, req)
		if runErr != nil && errors.Is(runErr, context.DeadlineExceeded) && ctx.Err() == nil {
			// Our deadline fired, not the caller's.
			return nil, fmt.Errorf("%w after %s", ErrTimeout, c.cfg.Timeout)
		}
		return res, runErr
	})

	metrics.AdapterRunDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.AdapterRuns.WithLabelValues("ok").Inc()
		metrics.AdapterRunNotes.Set(float64(len(result.ScoredNotes)))
		return result, nil

	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.AdapterRuns.WithLabelValues("rejected").Inc()
		logging.Warn().Err(err).Msg("scoring adapter run rejected by circuit breaker")
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)

	case errors.Is(err, ErrTimeout):
		metrics.AdapterRuns.WithLabelValues("timeout").Inc()
		metrics.ScorerFallbacks.WithLabelValues("adapter_timeout").Inc()
		logging.Warn().Dur("timeout", c.cfg.Timeout).Msg("scoring adapter run timed out")
		return nil, err

	case errors.Is(err, ErrInvalidInput):
		metrics.AdapterRuns.WithLabelValues("invalid_input").Inc()
		return nil, err

	default:
		metrics.AdapterRuns.WithLabelValues("error").Inc()
		metrics.ScorerFallbacks.WithLabelValues("adapter_error").Inc()
		logging.Warn().Err(err).Msg("scoring adapter run failed")
		return nil, fmt.Errorf("adapter run: %w", err)
	}
}

// stateToString converts a breaker state to a label value.
func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// stateToFloat converts a breaker state to a gauge value.
func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
