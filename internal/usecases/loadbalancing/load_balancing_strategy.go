package loadbalancing

import "github.com/krispingal/iscs/internal/domain"

// LoadBalancingStrategy picks the next backend of a pool. Implementations own
// their rotation state and must be safe for concurrent use.
type LoadBalancingStrategy interface {
	GetNextBackend([]*domain.Backend) (*domain.Backend, error)
}
