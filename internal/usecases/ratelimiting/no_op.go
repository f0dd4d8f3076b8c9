package ratelimiting

import (
	"time"
)

// NoOpRateLimiter admits every request.
type NoOpRateLimiter struct{}

func (d NoOpRateLimiter) IsAllowed(ip string) bool { return true }

func (d NoOpRateLimiter) GetState() map[string]int { return map[string]int{} }

func (d NoOpRateLimiter) GetRateLimit() (int, time.Duration) { return 0, 0 }

func (d NoOpRateLimiter) Stop() {}
