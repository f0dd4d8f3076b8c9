package ratelimiting

import (
	"fmt"

	"github.com/krispingal/iscs/internal/domain"
	"github.com/krispingal/iscs/internal/infrastructure"
)

// NewRateLimiter builds the limiter described by config.
func NewRateLimiter(config infrastructure.RateLimiter) (domain.RateLimiter, error) {
	switch config.Type {
	case "", infrastructure.RateLimiterNone:
		return NoOpRateLimiter{}, nil
	case infrastructure.RateLimiterFixedWindow:
		window, err := config.WindowDuration()
		if err != nil {
			return nil, &domain.ConfigError{Err: err}
		}
		if config.Limit <= 0 {
			return nil, domain.NewConfigError("", "rate limiter limit must be positive, got %d", config.Limit)
		}
		return NewFixedWindowRateLimiter(config.Limit, window), nil
	default:
		return nil, &domain.ConfigError{Err: fmt.Errorf("invalid rate limiter type %q", config.Type)}
	}
}
