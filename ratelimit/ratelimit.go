package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a per-key (remote IP) token bucket over all commands
// from that origin. Entries idle longer than pruneAfter are dropped so the
// map does not grow with every visitor the server has ever seen.
type Limiter struct {
	mu         sync.Mutex
	perSec     rate.Limit
	burst      int
	entries    map[string]*entry
	pruneAfter time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing perSec commands per second with the given
// burst per key.
func New(perSec, burst int) *Limiter {
	return &Limiter{
		perSec:     rate.Limit(perSec),
		burst:      burst,
		entries:    make(map[string]*entry),
		pruneAfter: 10 * time.Minute,
	}
}

// Allow reports whether the key may issue one more command now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.perSec, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = time.Now()
	l.mu.Unlock()
	return e.limiter.Allow()
}

// Prune drops entries that have been idle past the prune window. Called
// opportunistically by the owner on a timer.
func (l *Limiter) Prune() {
	cutoff := time.Now().Add(-l.pruneAfter)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
