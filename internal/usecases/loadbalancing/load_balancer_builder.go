package loadbalancing

import (
	"fmt"

	"github.com/krispingal/iscs/internal/domain"
	"go.uber.org/zap"
)

type LoadBalancerBuilder struct {
	resourceType string
	hosts        []string
	port         int
	strategy     LoadBalancingStrategy
	logger       *zap.Logger
}

// NewLoadBalancerBuilder initializes the builder
func NewLoadBalancerBuilder() *LoadBalancerBuilder {
	return &LoadBalancerBuilder{}
}

// WithResourceType sets the resource type served by the pool
func (b *LoadBalancerBuilder) WithResourceType(resourceType string) *LoadBalancerBuilder {
	b.resourceType = resourceType
	return b
}

// WithHosts sets the backend hosts; their order is the rotation order
func (b *LoadBalancerBuilder) WithHosts(hosts []string) *LoadBalancerBuilder {
	b.hosts = hosts
	return b
}

// WithPort sets the port shared by all backends
func (b *LoadBalancerBuilder) WithPort(port int) *LoadBalancerBuilder {
	b.port = port
	return b
}

// WithStrategy sets the load balancing strategy
func (b *LoadBalancerBuilder) WithStrategy(strategy LoadBalancingStrategy) *LoadBalancerBuilder {
	b.strategy = strategy
	return b
}

// WithLogger sets the logger
func (b *LoadBalancerBuilder) WithLogger(logger *zap.Logger) *LoadBalancerBuilder {
	b.logger = logger
	return b
}

// Build creates the final LoadBalancer object
func (b *LoadBalancerBuilder) Build() (*LoadBalancer, error) {
	if len(b.hosts) == 0 {
		return nil, fmt.Errorf("resource type %q: %w", b.resourceType, domain.ErrNoBackends)
	}
	strategy := b.strategy
	if strategy == nil {
		strategy = NewRoundRobinStrategy()
	}
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	backends := make([]*domain.Backend, 0, len(b.hosts))
	for _, host := range b.hosts {
		backends = append(backends, domain.NewBackend(host, b.port))
	}
	return NewLoadBalancer(b.resourceType, backends, b.port, strategy, logger), nil
}
