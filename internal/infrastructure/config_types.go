package infrastructure

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	MatchModeExact     = "exact"
	MatchModeSubstring = "substring"

	RateLimiterNone        = "none"
	RateLimiterFixedWindow = "fixed_window"
)

// Service holds the replicas of one resource type
type Service struct {
	Hosts []string `mapstructure:"hosts"`
	Port  int      `mapstructure:"port"`
}

// Routing controls how the first path segment is matched against resource types
type Routing struct {
	MatchMode string `mapstructure:"matchMode"` // "exact" or "substring"
}

// RateLimiter defines the structure for rate limiter configuration
type RateLimiter struct {
	Type   string `mapstructure:"type"`   // "none" or "fixed_window"
	Limit  int    `mapstructure:"limit"`  // request limit for the time window
	Window string `mapstructure:"window"` // only for window-based rate limiters
}

// Config holds the overall configuration
type Config struct {
	Services    map[string]Service `mapstructure:"services"`
	Routing     Routing            `mapstructure:"routing"`
	RateLimiter RateLimiter        `mapstructure:"rateLimiter"`
}

// ResourceTypes returns the configured resource types in lexical order.
func (c *Config) ResourceTypes() []string {
	names := make([]string, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WindowDuration parses the rate limiter window.
func (rl RateLimiter) WindowDuration() (time.Duration, error) {
	d, err := time.ParseDuration(rl.Window)
	if err != nil {
		return 0, fmt.Errorf("invalid rate limiter window %q: %w", rl.Window, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("rate limiter window must be positive, got %s", d)
	}
	return d, nil
}

// Validate checks the invariants the registry relies on.
func (c *Config) Validate() error {
	if len(c.Services) == 0 {
		return fmt.Errorf("no services configured")
	}
	for _, name := range c.ResourceTypes() {
		svc := c.Services[name]
		if name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("invalid resource type name %q", name)
		}
		if len(svc.Hosts) == 0 {
			return fmt.Errorf("service %q has no hosts", name)
		}
		for i, host := range svc.Hosts {
			if strings.TrimSpace(host) == "" {
				return fmt.Errorf("service %q: host %d is empty", name, i)
			}
		}
		if svc.Port < 1 || svc.Port > 65535 {
			return fmt.Errorf("service %q: port %d out of range", name, svc.Port)
		}
	}

	switch c.Routing.MatchMode {
	case "", MatchModeExact, MatchModeSubstring:
	default:
		return fmt.Errorf("unknown routing match mode %q", c.Routing.MatchMode)
	}

	switch c.RateLimiter.Type {
	case "", RateLimiterNone:
	case RateLimiterFixedWindow:
		if c.RateLimiter.Limit <= 0 {
			return fmt.Errorf("rate limiter limit must be positive, got %d", c.RateLimiter.Limit)
		}
		if _, err := c.RateLimiter.WindowDuration(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid rate limiter type %q", c.RateLimiter.Type)
	}
	return nil
}
