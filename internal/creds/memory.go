package creds

import "sync"

// Memory is an in-process Store used by tests and ephemeral sessions.
type Memory struct {
	mu   sync.Mutex
	pair Pair
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load() (Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair, nil
}

func (m *Memory) Save(p Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = p
	return nil
}

func (m *Memory) SetAccess(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair.Access = token
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = Pair{}
	return nil
}
