package memory

import (
	"sync"

	"timed-quiz/internal/app"
)

// SessionStore is an in-memory implementation of app.MachineRegistry.
type SessionStore struct {
	mu       sync.RWMutex
	machines map[string]*app.Machine
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		machines: make(map[string]*app.Machine),
	}
}

func (s *SessionStore) Put(clientID string, m *app.Machine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machines[clientID] = m
}

func (s *SessionStore) Get(clientID string) (*app.Machine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.machines[clientID]
	return m, ok
}

func (s *SessionStore) Delete(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.machines, clientID)
}

// Len reports how many machines are live.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.machines)
}
