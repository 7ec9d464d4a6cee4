package backing

import (
	"sync"

	"github.com/arif-itm/FarmProof/internal/types"
)

// Memory is an in-process backing for tests and relay-connected clients
// that keep no durable copy of their own.
type Memory struct {
	mu       sync.Mutex
	snapshot *types.DomainState
}

// NewMemory creates an empty in-memory backing.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() (types.DomainState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == nil {
		return types.DefaultState(), nil
	}
	return m.snapshot.Clone(), nil
}

func (m *Memory) Save(state types.DomainState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := state.Clone()
	m.snapshot = &clone
	return nil
}

func (m *Memory) Close() error {
	return nil
}
