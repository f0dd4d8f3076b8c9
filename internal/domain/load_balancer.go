package domain

// LoadBalancer is the pool of replicas serving one resource type.
type LoadBalancer interface {
	ResourceType() string
	Port() int
	Backends() []*Backend
	SelectNext() (*Backend, error)
}
