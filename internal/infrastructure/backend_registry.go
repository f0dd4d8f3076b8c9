package infrastructure

import (
	"sort"

	"github.com/krispingal/iscs/internal/domain"
)

// BackendRegistry is the read-only resource type -> pool mapping. It is built
// once and never mutated, so lookups take no lock.
type BackendRegistry struct {
	pools         map[string]domain.LoadBalancer
	resourceTypes []string
}

func NewBackendRegistry(pools map[string]domain.LoadBalancer) *BackendRegistry {
	r := &BackendRegistry{
		pools:         make(map[string]domain.LoadBalancer, len(pools)),
		resourceTypes: make([]string, 0, len(pools)),
	}
	for resourceType, lb := range pools {
		r.pools[resourceType] = lb
		r.resourceTypes = append(r.resourceTypes, resourceType)
	}
	sort.Strings(r.resourceTypes)
	return r
}

// Lookup returns the pool for resourceType
func (r *BackendRegistry) Lookup(resourceType string) (domain.LoadBalancer, bool) {
	lb, ok := r.pools[resourceType]
	return lb, ok
}

// ResourceTypes lists registered resource types in lexical order.
func (r *BackendRegistry) ResourceTypes() []string {
	out := make([]string, len(r.resourceTypes))
	copy(out, r.resourceTypes)
	return out
}
