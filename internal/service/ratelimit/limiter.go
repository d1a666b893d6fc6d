package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy is a token bucket shape: Capacity tokens, refilled at RefillPerSec.
type Policy struct {
	Capacity     float64
	RefillPerSec float64
}

func (p Policy) burst() int {
	if p.Capacity < 1 {
		return 1
	}
	return int(p.Capacity)
}

type entry struct {
	lim  *rate.Limiter
	last time.Time
}

// Limiter keeps one rate.Limiter per key and forgets keys left idle.
type Limiter struct {
	mu      sync.Mutex
	m       map[string]*entry
	now     func() time.Time
	idleTTL time.Duration
	sweeps  int
}

type Option func(*Limiter)

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIdleTTL sets how long an untouched key is kept.
func WithIdleTTL(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.idleTTL = d
		}
	}
}

func New(opts ...Option) *Limiter {
	l := &Limiter{m: make(map[string]*entry), now: time.Now, idleTTL: 10 * time.Minute}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether one request for key fits the policy. The policy is
// fixed the first time a key is seen.
func (l *Limiter) Allow(key string, p Policy) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeSweep(now)

	e, ok := l.m[key]
	if !ok {
		e = &entry{lim: rate.NewLimiter(rate.Limit(p.RefillPerSec), p.burst())}
		l.m[key] = e
	}
	e.last = now
	return e.lim.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// maybeSweep drops idle keys every 256 calls. Caller holds mu.
func (l *Limiter) maybeSweep(now time.Time) {
	l.sweeps++
	if l.sweeps%256 != 0 {
		return
	}
	for k, e := range l.m {
		if now.Sub(e.last) > l.idleTTL {
			delete(l.m, k)
		}
	}
}
