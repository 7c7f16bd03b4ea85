// Package throttle rate-limits login attempts per source address. The
// counters are process-local and intentionally non-durable: losing them on
// restart only relaxes a heuristic, it never grants access.
package throttle

import (
	"sync"
	"time"
)

type entry struct {
	count       int
	windowStart time.Time
}

// LoginThrottle tracks failed login attempts per IP address. Once an
// address accumulates maxAttempts failures inside the lockout window, all
// further attempts from it are rejected until the window elapses.
// Successful logins never consume a slot.
type LoginThrottle struct {
	mu          sync.Mutex
	attempts    map[string]*entry
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

func New(maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		attempts:    make(map[string]*entry),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// Allow reports whether the address may attempt a login right now. It does
// not count the attempt; only RecordFailure does.
func (t *LoginThrottle) Allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.attempts[ip]
	if !ok {
		return true
	}

	if t.now().Sub(e.windowStart) >= t.window {
		delete(t.attempts, ip)
		return true
	}

	return e.count < t.maxAttempts
}

// RecordFailure counts one failed attempt for the address, starting a new
// window if the previous one has elapsed.
func (t *LoginThrottle) RecordFailure(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	e, ok := t.attempts[ip]
	if !ok || now.Sub(e.windowStart) >= t.window {
		t.attempts[ip] = &entry{count: 1, windowStart: now}
		return
	}

	e.count++
}

// Clear drops the address entirely. Called after a successful login.
func (t *LoginThrottle) Clear(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, ip)
}

// Prune removes entries whose window has elapsed. Called periodically by
// the janitor so idle addresses do not accumulate.
func (t *LoginThrottle) Prune() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for ip, e := range t.attempts {
		if now.Sub(e.windowStart) >= t.window {
			delete(t.attempts, ip)
		}
	}
}
