package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultLimiterIdleTimeout is how long a client may stay silent before its
// limiter is discarded.
const DefaultLimiterIdleTimeout = 10 * time.Minute

// ClientLimiter provides per-client rate limiting using token buckets.
// Each client gets its own limiter so that one busy client cannot exhaust
// the budget of the others. Limiters of clients idle for longer than the
// idle timeout are swept, so the number of tracked clients stays bounded by
// the clients seen within that window.
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	rps       float64
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterOption configures a ClientLimiter.
type LimiterOption func(*ClientLimiter)

// WithIdleTimeout sets how long an unused client limiter is kept.
func WithIdleTimeout(d time.Duration) LimiterOption {
	return func(l *ClientLimiter) {
		l.idle = d
	}
}

// NewClientLimiter creates a ClientLimiter allowing rps requests per second
// per client with the given burst. A burst below 1 is treated as 1.
func NewClientLimiter(rps float64, burst int, opts ...LimiterOption) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &ClientLimiter{
		clients:   make(map[string]*clientBucket),
		rps:       rps,
		burst:     burst,
		idle:      DefaultLimiterIdleTimeout,
		lastSweep: time.Now(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether the client may make a request now.
func (l *ClientLimiter) Allow(client string) bool {
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}
	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.clients[client] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

// Len returns the number of clients currently tracked.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweep drops clients idle since before now minus the idle timeout.
// Must be called with l.mu held.
func (l *ClientLimiter) sweep(now time.Time) {
	for client, b := range l.clients {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}
