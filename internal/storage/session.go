package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	mu         sync.Mutex // serializes submissions within one session
	session    *entities.Session
	lastAccess time.Time
}

// SessionStorage keeps quiz sessions in memory keyed by the shell's session key.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	now      func() time.Time
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
	}
}

// With runs fn on the session stored under key while holding that session's
// lock. If the key is unknown, create builds a new session; a nil create
// makes With return ErrSessionNotFound instead.
func (s *SessionStorage) With(key string, create func() *entities.Session, fn func(*entities.Session) error) error {
	e, err := s.acquire(key, create)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return fn(e.session)
}

func (s *SessionStorage) acquire(key string, create func() *entities.Session) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[key]
	if !ok {
		if create == nil {
			return nil, ErrSessionNotFound
		}
		e = &sessionEntry{session: create()}
		s.sessions[key] = e
	}
	e.lastAccess = s.now()

	return e, nil
}

// Delete removes the session stored under key.
func (s *SessionStorage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Len returns the number of stored sessions.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions not accessed within idle and returns how many were removed.
func (s *SessionStorage) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	evicted := 0
	for key, e := range s.sessions {
		if e.lastAccess.Before(cutoff) {
			delete(s.sessions, key)
			evicted++
		}
	}

	return evicted
}
