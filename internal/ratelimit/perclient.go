// Package ratelimit provides per-client request rate limiting for the
// gateway's inbound edge.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientEntry holds a limiter and the last time it was used.
type clientEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// PerClient maintains a separate token-bucket limiter per client key
// (IP, API key, ...). A background goroutine garbage-collects entries
// idle longer than staleThreshold so the map cannot grow unbounded.
type PerClient struct {
	mu             sync.Mutex
	clients        map[string]*clientEntry
	rps            rate.Limit
	burst          int
	staleThreshold time.Duration
	stop           chan struct{}
}

// NewPerClient creates a per-client limiter. Each new client gets a
// bucket sustaining rps requests per second with the given burst.
func NewPerClient(rps float64, burst int, staleThreshold time.Duration) *PerClient {
	pc := &PerClient{
		clients:        make(map[string]*clientEntry),
		rps:            rate.Limit(rps),
		burst:          burst,
		staleThreshold: staleThreshold,
		stop:           make(chan struct{}),
	}
	go pc.gc()
	return pc
}

// Allow reports whether the client identified by key may proceed,
// creating a fresh bucket on its first request.
func (pc *PerClient) Allow(key string) bool {
	pc.mu.Lock()
	entry, ok := pc.clients[key]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(pc.rps, pc.burst)}
		pc.clients[key] = entry
	}
	entry.lastAccess = time.Now()
	pc.mu.Unlock()

	return entry.limiter.Allow()
}

// gc periodically removes stale client entries.
func (pc *PerClient) gc() {
	ticker := time.NewTicker(pc.staleThreshold / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pc.mu.Lock()
			now := time.Now()
			for key, entry := range pc.clients {
				if now.Sub(entry.lastAccess) > pc.staleThreshold {
					delete(pc.clients, key)
				}
			}
			pc.mu.Unlock()
		case <-pc.stop:
			return
		}
	}
}

// Close stops the background garbage collection goroutine.
func (pc *PerClient) Close() error {
	close(pc.stop)
	return nil
}
