package infrastructure

import (
	"fmt"
	"strings"

	"github.com/krispingal/iscs/internal/domain"
)

// RoutingTable classifies endpoints against the registry.
type RoutingTable struct {
	registry  domain.BackendRegistry
	matchMode string
}

// NewRoutingTable returns a table using matchMode ("exact" or "substring").
func NewRoutingTable(registry domain.BackendRegistry, matchMode string) (*RoutingTable, error) {
	switch matchMode {
	case "":
		matchMode = MatchModeExact
	case MatchModeExact, MatchModeSubstring:
	default:
		return nil, fmt.Errorf("unknown routing match mode %q", matchMode)
	}
	return &RoutingTable{registry: registry, matchMode: matchMode}, nil
}

// Resolve maps an endpoint (first path segment) to its pool. In exact mode the
// endpoint must equal a resource type. In substring mode the first resource
// type, in lexical order, contained in the endpoint wins.
func (rt *RoutingTable) Resolve(endpoint string) (domain.LoadBalancer, error) {
	if endpoint == "" {
		return nil, domain.ErrInvalidEndpoint
	}
	if rt.matchMode == MatchModeExact {
		return rt.ResolveResourceType(endpoint)
	}
	for _, resourceType := range rt.registry.ResourceTypes() {
		if strings.Contains(endpoint, resourceType) {
			return rt.ResolveResourceType(resourceType)
		}
	}
	return nil, domain.ErrInvalidEndpoint
}

// ResolveResourceType looks a resource type up without classification.
func (rt *RoutingTable) ResolveResourceType(resourceType string) (domain.LoadBalancer, error) {
	lb, ok := rt.registry.Lookup(resourceType)
	if !ok {
		return nil, domain.ErrInvalidEndpoint
	}
	return lb, nil
}
