// Package worker holds shared concurrency helpers for the engine.
package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles correction submissions per reviewer, so one runaway
// client cannot monopolize the engine while others review.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a per-reviewer rate limiter
func NewLimiter(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		perSecond = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(perSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the reviewer may submit, or the context is done
func (l *Limiter) Wait(ctx context.Context, reviewer string) error {
	return l.getLimiter(reviewer).Wait(ctx)
}

// Allow reports whether the reviewer may submit right now, without waiting
func (l *Limiter) Allow(reviewer string) bool {
	return l.getLimiter(reviewer).Allow()
}

// getLimiter returns the limiter for a reviewer, creating it on first use
func (l *Limiter) getLimiter(reviewer string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[reviewer]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[reviewer]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[reviewer] = limiter
	return limiter
}
