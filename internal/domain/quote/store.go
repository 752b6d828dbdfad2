package quote

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps live sessions in memory. Sessions idle for longer than the
// TTL are gone; a TTL of zero keeps them forever.
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
	ttl     time.Duration
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[uuid.UUID]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID] = &entry{session: sess, lastSeen: s.now()}
}

// Get returns a live session and marks it as used.
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(e, now) {
		delete(s.entries, id)
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// ByCompany returns the live sessions quoting a company.
func (s *Store) ByCompany(company string) []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var out []*Session
	for _, e := range s.entries {
		if e.session.Company() == company && !s.expired(e, now) {
			out = append(out, e.session)
		}
	}
	return out
}

// Evict drops expired sessions and returns their ids.
func (s *Store) Evict() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var evicted []uuid.UUID
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}
