// Package services – Cooldown
//
// This file implements the per-user query cooldown: a lightweight, in-memory
// limiter with per-user token buckets and opportunistic garbage collection.
// It is designed for simplicity, low overhead, and predictable behavior in a
// single-process deployment.
//
// Notes:
//   - The cooldown is process-local. For horizontally scaled deployments,
//     prefer a distributed limiter to enforce global limits.
//   - A query arriving inside the window is dropped entirely; there is no
//     queueing or retry.
package services

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor holds a single rate limiter and the last time it was seen.
// Used to opportunistically evict idle buckets.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Cooldown enforces a minimum gap between accepted queries per user.
//
// Buckets are created on demand and stored in an internal map guarded by a
// mutex. Idle buckets are evicted after a TTL via opportunistic cleanup
// during lookups to keep memory usage bounded.
//
// This type is safe for concurrent use.
type Cooldown struct {
	window   time.Duration
	mu       sync.Mutex
	visitors map[int64]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewCooldown constructs a Cooldown with the given minimum gap between
// accepted queries. Windows <= 0 are coerced to one second.
func NewCooldown(window time.Duration) *Cooldown {
	if window <= 0 {
		window = time.Second
	}
	return &Cooldown{
		window:   window,
		visitors: make(map[int64]*visitor),
		ttl:      10 * time.Minute, // evict idle entries after TTL
	}
}

// Allow reports whether userID may run a query now, consuming the slot when
// it does. The first query always passes; subsequent ones pass once per
// window.
func (cd *Cooldown) Allow(userID int64) bool {
	return cd.getVisitor(userID).Allow()
}

// getVisitor returns (and updates) the limiter for userID, creating it if
// absent. It also performs opportunistic GC of idle entries after ~5000
// lookups.
//
// IMPORTANT: Run GC *before* touching the requested visitor so an "old"
// bucket can be evicted even when it's the one being fetched.
func (cd *Cooldown) getVisitor(userID int64) *rate.Limiter {
	now := time.Now()

	cd.mu.Lock()
	// Opportunistic cleanup after a threshold of lookups, then reset the counter.
	// Do this BEFORE updating/creating the requested visitor to avoid
	// refreshing an "old" entry that should be evicted.
	cd.cleanupN++
	if cd.cleanupN >= 5000 {
		for id, vv := range cd.visitors {
			// Evict if idle for >= TTL (robust boundary check)
			if now.Sub(vv.lastSeen) >= cd.ttl {
				delete(cd.visitors, id)
			}
		}
		cd.cleanupN = 0
	}

	// Fetch or create this visitor.
	if v, ok := cd.visitors[userID]; ok {
		v.lastSeen = now
		lim := v.limiter
		cd.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(rate.Every(cd.window), 1)
	cd.visitors[userID] = &visitor{limiter: lim, lastSeen: now}
	cd.mu.Unlock()
	return lim
}
