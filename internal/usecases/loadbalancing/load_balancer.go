package loadbalancing

import (
	"github.com/krispingal/iscs/internal/domain"
	"go.uber.org/zap"
)

// LoadBalancer is the pool of one resource type. Its backends and port never
// change after construction; only the strategy's cursor moves.
type LoadBalancer struct {
	resourceType string
	backends     []*domain.Backend
	port         int
	strategy     LoadBalancingStrategy
	logger       *zap.Logger
}

func NewLoadBalancer(resourceType string, backends []*domain.Backend, port int, strategy LoadBalancingStrategy, logger *zap.Logger) *LoadBalancer {
	return &LoadBalancer{
		resourceType: resourceType,
		backends:     backends,
		port:         port,
		strategy:     strategy,
		logger:       logger,
	}
}

func (lb *LoadBalancer) ResourceType() string {
	return lb.resourceType
}

func (lb *LoadBalancer) Port() int {
	return lb.port
}

func (lb *LoadBalancer) Backends() []*domain.Backend {
	return lb.backends
}

func (lb *LoadBalancer) Strategy() LoadBalancingStrategy {
	return lb.strategy
}

// SelectNext returns the backend that receives the next request.
func (lb *LoadBalancer) SelectNext() (*domain.Backend, error) {
	backend, err := lb.strategy.GetNextBackend(lb.backends)
	if err != nil {
		lb.logger.Error("Load balancer did not receive a next backend",
			zap.String("resource_type", lb.resourceType), zap.Error(err))
		return nil, err
	}
	lb.logger.Debug("Selected backend",
		zap.String("resource_type", lb.resourceType),
		zap.String("backend", backend.Address()))
	return backend, nil
}
