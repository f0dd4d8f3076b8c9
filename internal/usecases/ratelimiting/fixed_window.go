package ratelimiting

import (
	"sync"
	"time"
)

// FixedWindowRateLimiter allows requestLimit requests per client IP in each
// window. Counts are dropped wholesale when the window elapses.
type FixedWindowRateLimiter struct {
	ipRequestCount map[string]int
	requestLimit   int
	windowDuration time.Duration
	mu             sync.RWMutex // Mutex for protecting the request map
	resetTicker    *time.Ticker // Ticker to reset requests after each window
	done           chan struct{}
	stopOnce       sync.Once
}

func NewFixedWindowRateLimiter(requestLimit int, windowDuration time.Duration) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		ipRequestCount: make(map[string]int),
		requestLimit:   requestLimit,
		windowDuration: windowDuration,
		resetTicker:    time.NewTicker(windowDuration),
		done:           make(chan struct{}),
	}
	go rl.reset()
	return rl
}

func (rl *FixedWindowRateLimiter) IsAllowed(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.ipRequestCount[ip] >= rl.requestLimit {
		return false
	}
	rl.ipRequestCount[ip]++
	return true
}

// GetState returns a copy of the per-IP counts of the current window.
func (rl *FixedWindowRateLimiter) GetState() map[string]int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	stateCopy := make(map[string]int, len(rl.ipRequestCount))
	for ip, count := range rl.ipRequestCount {
		stateCopy[ip] = count
	}
	return stateCopy
}

func (rl *FixedWindowRateLimiter) GetRateLimit() (int, time.Duration) {
	return rl.requestLimit, rl.windowDuration
}

// Stop ends the reset goroutine. It is safe to call more than once.
func (rl *FixedWindowRateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		rl.resetTicker.Stop()
		close(rl.done)
	})
}

func (rl *FixedWindowRateLimiter) reset() {
	for {
		select {
		case <-rl.resetTicker.C:
			rl.mu.Lock()
			rl.ipRequestCount = make(map[string]int)
			rl.mu.Unlock()
		case <-rl.done:
			return
		}
	}
}
