// Package ratelimit implements a per-key sliding-window limiter whose call history
// lives in a repository.KeyValueStore, so windows survive restarts with a durable store.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"alcyxob/fitness-planner/internal/errs"
	"alcyxob/fitness-planner/internal/metrics"
	"alcyxob/fitness-planner/internal/repository"

	"go.uber.org/zap"
)

// Policy names one operation's window.
type Policy struct {
	Key      string
	Limit    int
	Interval time.Duration
}

// Limiter keeps a list of call timestamps (epoch millis) per key.
type Limiter struct {
	store   repository.KeyValueStore
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu sync.Mutex
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithMetrics counts refusals.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) { l.metrics = m }
}

// WithLogger sets the logger used for corrupt-history warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Limiter) { l.logger = logger }
}

// New creates a limiter over store.
func New(store repository.KeyValueStore, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow consumes a slot for key when fewer than limit calls happened within the
// last interval. On refusal it returns the time until the oldest retained call
// leaves the window. A limit of zero or less disables limiting for the key.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, interval time.Duration) (bool, time.Duration, error) {
	if limit <= 0 {
		return true, 0, nil
	}
	storeKey := repository.RateLimitKeyPrefix + key

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UnixMilli()
	windowMs := interval.Milliseconds()

	history, err := l.load(ctx, storeKey)
	if err != nil {
		return false, 0, err
	}
	retained := history[:0]
	for _, ts := range history {
		if now-ts < windowMs {
			retained = append(retained, ts)
		}
	}

	if len(retained) >= limit {
		oldest := retained[0]
		for _, ts := range retained[1:] {
			if ts < oldest {
				oldest = ts
			}
		}
		wait := time.Duration(windowMs-(now-oldest)) * time.Millisecond
		l.metrics.RateLimitRefused(key)
		return false, wait, nil
	}

	retained = append(retained, now)
	raw, err := json.Marshal(retained)
	if err != nil {
		return false, 0, fmt.Errorf("encode rate limit history: %w", err)
	}
	if err := l.store.Set(ctx, storeKey, raw); err != nil {
		return false, 0, fmt.Errorf("persist rate limit history: %w", err)
	}
	return true, 0, nil
}

// Check applies p and turns a refusal into an errs.KindRateLimited error.
func (l *Limiter) Check(ctx context.Context, p Policy) error {
	allowed, wait, err := l.Allow(ctx, p.Key, p.Limit, p.Interval)
	if err != nil {
		return err
	}
	if !allowed {
		return errs.RateLimited(fmt.Errorf("local limit for %q reached", p.Key), wait)
	}
	return nil
}

// load returns the stored history. A missing key or a value that is not a JSON
// array of numbers yields an empty history; a failed read is returned as is so
// the stored window is left alone.
func (l *Limiter) load(ctx context.Context, storeKey string) ([]int64, error) {
	raw, found, err := l.store.Get(ctx, storeKey)
	if err != nil {
		return nil, fmt.Errorf("read rate limit history: %w", err)
	}
	if !found {
		return nil, nil
	}
	var history []int64
	if err := json.Unmarshal(raw, &history); err != nil {
		l.logger.Warn("rate limit history corrupt, resetting", zap.String("key", storeKey), zap.Error(err))
		return nil, nil
	}
	return history, nil
}
