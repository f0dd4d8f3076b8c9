package loadbalancing

import (
	"github.com/krispingal/iscs/internal/domain"
	"github.com/krispingal/iscs/internal/infrastructure"
	"go.uber.org/zap"
)

// CreateLoadBalancers builds one round robin pool per configured resource type.
func CreateLoadBalancers(config *infrastructure.Config, logger *zap.Logger) (map[string]domain.LoadBalancer, error) {
	lbMap := make(map[string]domain.LoadBalancer, len(config.Services))

	for _, resourceType := range config.ResourceTypes() {
		svc := config.Services[resourceType]
		lb, err := NewLoadBalancerBuilder().
			WithResourceType(resourceType).
			WithHosts(svc.Hosts).
			WithPort(svc.Port).
			WithStrategy(NewRoundRobinStrategy()).
			WithLogger(logger).
			Build()
		if err != nil {
			return nil, &domain.ConfigError{Err: err}
		}
		lbMap[resourceType] = lb
	}
	logger.Debug("Created load balancers", zap.Int("count", len(lbMap)))
	return lbMap, nil
}

// LoadRegistry validates config and builds the registry from it.
func LoadRegistry(config *infrastructure.Config, logger *zap.Logger) (*infrastructure.BackendRegistry, error) {
	if err := config.Validate(); err != nil {
		return nil, &domain.ConfigError{Err: err}
	}
	lbs, err := CreateLoadBalancers(config, logger)
	if err != nil {
		return nil, err
	}
	return infrastructure.NewBackendRegistry(lbs), nil
}
