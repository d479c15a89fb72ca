package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"timed-quiz/internal/app"
)

// SessionStore is a Redis-aware implementation of app.MachineRegistry.
// Machines stay in process (their timers cannot move); Redis only carries
// a liveness marker per client so operators can count open quizzes.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	machines map[string]*app.Machine
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		machines: make(map[string]*app.Machine),
	}
}

func (s *SessionStore) Put(clientID string, m *app.Machine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machines[clientID] = m
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(clientID), "1", s.ttl).Err()
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
	if _, ok := s.machines[clientID]; !ok {
		return
	}
	delete(s.machines, clientID)
	_ = s.client.Del(context.Background(), s.key(clientID)).Err()
}

func (s *SessionStore) key(clientID string) string {
	return "quiz:session:" + clientID
}
