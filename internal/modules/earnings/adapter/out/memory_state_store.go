package out

import (
	"context"
	"sync"

	"moneywatch/internal/modules/earnings/domain"
	earningsout "moneywatch/internal/modules/earnings/port/out"
)

// MemoryStateStore keeps the aggregator state for the life of the process.
type MemoryStateStore struct {
	mu    sync.RWMutex
	state domain.State
}

func NewMemoryStateStore(initial domain.State) earningsout.StateStore {
	return &MemoryStateStore{state: cloneState(initial)}
}

func (s *MemoryStateStore) Load(_ context.Context) (domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state), nil
}

func (s *MemoryStateStore) Save(_ context.Context, state domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cloneState(state)
	return nil
}

func cloneState(state domain.State) domain.State {
	if state.Bank != nil {
		bank := *state.Bank
		state.Bank = &bank
	}
	return state
}
