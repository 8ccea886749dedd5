// Package ratelimit limits requests per client and endpoint.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type entry struct {
	limiter    *rate.Limiter
	limit      int
	burst      int
	lastAccess time.Time
}

// Limiter keeps one token bucket per client, endpoint and method.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	config  *Config
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a rate limiter. A nil config enables the defaults.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    600,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			IdleTTL:         time.Hour,
		}
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = time.Hour
	}

	l := &Limiter{
		entries: make(map[string]*entry),
		config:  config,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow reports whether a request from clientID to path may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	ep := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if ep == nil {
		ep = &EndpointConfig{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if ep.Limit <= 0 || ep.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	e := l.entry(clientID+":"+method+":"+path, ep, now)
	allowed := e.limiter.AllowN(now, 1)

	tokens := e.limiter.TokensAt(now)
	perToken := ep.Window / time.Duration(ep.Limit)
	info := Info{
		Allowed:   allowed,
		Limit:     ep.Limit,
		Remaining: max(int(tokens), 0),
		ResetTime: now.Add(time.Duration((float64(e.burst) - tokens) * float64(perToken))),
	}
	if !allowed {
		info.RetryAfter = time.Duration((1 - tokens) * float64(perToken))
	}
	return allowed, info
}

func (l *Limiter) entry(key string, ep *EndpointConfig, now time.Time) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		burst := ep.Burst
		if burst <= 0 {
			burst = ep.Limit
		}
		e = &entry{
			limiter: rate.NewLimiter(rate.Every(ep.Window/time.Duration(ep.Limit)), burst),
			limit:   ep.Limit,
			burst:   burst,
		}
		l.entries[key] = e
	}
	e.lastAccess = now
	return e
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

// cleanup drops buckets that have been idle longer than the configured TTL.
func (l *Limiter) cleanup() {
	cutoff := l.now().Add(-l.config.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if e.lastAccess.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Len returns the number of tracked buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Stop stops the cleanup goroutine.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
