package client

import (
	"sync"

	"github.com/mmad4804/goal-tracker/pkg/entity"
)

// MemorySessionStore holds the session for the process lifetime. Mobile
// shells swap in a keychain-backed implementation.
type MemorySessionStore struct {
	mu      sync.RWMutex
	session *entity.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Load() (*entity.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, false
	}
	cp := *s.session
	return &cp, true
}

func (s *MemorySessionStore) Save(session *entity.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.session = nil
		return
	}
	cp := *session
	s.session = &cp
}

func (s *MemorySessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}
