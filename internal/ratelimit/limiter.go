// Package ratelimit provides per-client token bucket rate limiting.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Config defines the rate limiting configuration.
type Config struct {
	RPS             float64       // sustained requests per second per client; <= 0 disables limiting
	Burst           int           // bucket size
	CleanupInterval time.Duration // how often idle limiters are dropped
}

// DefaultCleanupInterval is used when Config.CleanupInterval is zero.
const DefaultCleanupInterval = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64 // unix nanos
}

// Limiter tracks one token bucket per client key.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*entry
	config   Config
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Limiter and starts its cleanup goroutine. Call Stop on shutdown.
func New(config Config) *Limiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	l := &Limiter{
		limiters: make(map[string]*entry),
		config:   config,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Enabled reports whether requests are limited at all.
func (l *Limiter) Enabled() bool {
	return l.config.RPS > 0
}

// Allow consumes one token for key.
func (l *Limiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}
	return l.get(key).AllowN(l.now(), 1)
}

func (l *Limiter) get(key string) *rate.Limiter {
	now := l.now().UnixNano()

	l.mu.RLock()
	e, ok := l.limiters[key]
	l.mu.RUnlock()
	if ok {
		e.lastUsed.Store(now)
		return e.limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok = l.limiters[key]; !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst)}
		l.limiters[key] = e
	}
	e.lastUsed.Store(now)
	return e.limiter
}

// Cleanup removes limiters idle for longer than the cleanup interval.
func (l *Limiter) Cleanup() {
	cutoff := l.now().Add(-l.config.CleanupInterval).UnixNano()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.limiters {
		if e.lastUsed.Load() < cutoff {
			delete(l.limiters, key)
		}
	}
}

func (l *Limiter) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-l.stopCh:
			return
		}
	}
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	l.wg.Wait()
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.limiters)
}
