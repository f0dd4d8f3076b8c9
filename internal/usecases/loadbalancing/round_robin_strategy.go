package loadbalancing

import (
	"sync/atomic"

	"github.com/krispingal/iscs/internal/domain"
)

// RoundRobinStrategy hands out backends in slice order. The cursor always
// stays in [0, len(backends)) and is advanced with a CAS so concurrent callers
// never observe the same position.
type RoundRobinStrategy struct {
	cursor atomic.Uint32
}

func NewRoundRobinStrategy() *RoundRobinStrategy {
	return &RoundRobinStrategy{}
}

func (rr *RoundRobinStrategy) GetNextBackend(backends []*domain.Backend) (*domain.Backend, error) {
	n := uint32(len(backends))
	if n == 0 {
		return nil, domain.ErrNoBackends
	}
	for {
		current := rr.cursor.Load()
		index := current % n
		if rr.cursor.CompareAndSwap(current, (index+1)%n) {
			return backends[index], nil
		}
	}
}

// Cursor returns the index the next call will select.
func (rr *RoundRobinStrategy) Cursor() uint32 {
	return rr.cursor.Load()
}
