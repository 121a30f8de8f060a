// Package ratelimit implements the gateway's fixed-window request limiter,
// keyed by client identity. The client table is LRU-bounded so a churn of
// distinct clients cannot grow it without limit.
package ratelimit

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Result reports one admission decision together with the metadata the
// handler exposes back to the caller.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per client inside fixed windows. A request in a
// fresh or expired window resets the count to 1; a request inside an
// exhausted window is rejected with the remaining reset time.
type Limiter struct {
	mu      sync.Mutex
	clients *lru.Cache[string, *entry]
	window  time.Duration
	max     int
	now     func() time.Time
}

// New creates a limiter allowing max requests per window, tracking at most
// maxClients distinct clients.
func New(window time.Duration, max, maxClients int) *Limiter {
	if maxClients <= 0 {
		maxClients = 4096
	}
	clients, _ := lru.New[string, *entry](maxClients)
	return &Limiter{
		clients: clients,
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

// Allow records one request for client and reports whether it may proceed.
func (l *Limiter) Allow(client string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ent, ok := l.clients.Get(client)
	if !ok || now.After(ent.resetAt) {
		l.clients.Add(client, &entry{count: 1, resetAt: now.Add(l.window)})
		return Result{Allowed: true, Limit: l.max, Remaining: l.max - 1, ResetIn: l.window}
	}
	if ent.count >= l.max {
		return Result{Allowed: false, Limit: l.max, Remaining: 0, ResetIn: ent.resetAt.Sub(now)}
	}
	ent.count++
	return Result{Allowed: true, Limit: l.max, Remaining: l.max - ent.count, ResetIn: ent.resetAt.Sub(now)}
}
