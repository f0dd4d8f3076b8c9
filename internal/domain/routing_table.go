package domain

// RoutingTable classifies the first path segment of a request into the pool
// that serves it.
type RoutingTable interface {
	Resolve(endpoint string) (LoadBalancer, error)
	// ResolveResourceType bypasses classification for fixed routes.
	ResolveResourceType(resourceType string) (LoadBalancer, error)
}
