package domain

// BackendRegistry maps resource types to their pools. It is fixed once built.
type BackendRegistry interface {
	Lookup(resourceType string) (LoadBalancer, bool)
	ResourceTypes() []string
}
