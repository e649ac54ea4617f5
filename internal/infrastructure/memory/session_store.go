package memory

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

type sessionEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// SessionStore is the in-process domain.SessionStore; a zero ttl keeps sessions forever.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]sessionEntry
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[int64]sessionEntry),
		now:      time.Now,
	}
}

func (s *SessionStore) Get(_ context.Context, chatID int64) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[chatID]
	if !ok || (!entry.expiresAt.IsZero() && s.now().After(entry.expiresAt)) {
		delete(s.sessions, chatID)
		return &domain.Session{ChatID: chatID, Selection: domain.Selection{}}, nil
	}
	out := copySession(entry.session)
	return &out, nil
}

func (s *SessionStore) Set(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := sessionEntry{session: copySession(*session)}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.sessions[session.ChatID] = entry
	return nil
}

func (s *SessionStore) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
	return nil
}

func copySession(in domain.Session) domain.Session {
	out := in
	out.Selection = make(domain.Selection, len(in.Selection))
	for conf, lectures := range in.Selection {
		out.Selection[conf] = append([]string(nil), lectures...)
	}
	return out
}
