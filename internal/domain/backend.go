package domain

import (
	"net"
	"net/url"
	"strconv"
)

// Backend is one replica of a resource type, addressed by host and the port
// shared by its pool.
type Backend struct {
	Host string
	Port int
}

func NewBackend(host string, port int) *Backend {
	return &Backend{
		Host: host,
		Port: port,
	}
}

// Address returns host:port, bracketing IPv6 hosts.
func (b *Backend) Address() string {
	return net.JoinHostPort(b.Host, strconv.Itoa(b.Port))
}

// URL returns the absolute http URL of ref's path and query on this backend.
func (b *Backend) URL(ref *url.URL) string {
	u := url.URL{
		Scheme:   "http",
		Host:     b.Address(),
		Path:     ref.Path,
		RawPath:  ref.RawPath,
		RawQuery: ref.RawQuery,
	}
	return u.String()
}
