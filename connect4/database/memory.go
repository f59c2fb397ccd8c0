package database

import (
	"context"
	"sync"
	"time"

	"connect4server/models"
)

type memoryEntry struct {
	info    models.SessionInfo
	expires time.Time
}

// MemorySessionStore keeps sessions in process when no Redis is configured.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemorySessionStore) Save(_ context.Context, sessionID string, info models.SessionInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = memoryEntry{info: info, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, sessionID string) (models.SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return models.SessionInfo{}, ErrSessionNotFound
	}
	if s.ttl > 0 && !s.now().Before(e.expires) {
		delete(s.sessions, sessionID)
		return models.SessionInfo{}, ErrSessionNotFound
	}
	return e.info, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Purge removes expired sessions. Run from the cron reaper.
func (s *MemorySessionStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}
	now := s.now()
	n := 0
	for id, e := range s.sessions {
		if !now.Before(e.expires) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
