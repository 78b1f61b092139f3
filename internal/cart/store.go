package cart

import (
	"context"
	"sync"
	"time"
)

// session pairs a cart with its last access time for TTL eviction.
type session struct {
	cart     *Cart
	lastSeen time.Time
}

// Store maps session ids to carts. Carts are created on first access and
// evicted after sitting idle for the configured TTL. The Store is injected
// into every consumer at wiring time so tests can substitute an isolated
// instance.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates an empty session store. A ttl <= 0 disables eviction.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the cart for the given session id, creating an empty one on
// first access. Every call refreshes the session's eviction clock.
func (s *Store) Get(id string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{cart: New()}
		s.sessions[id] = sess
	}
	sess.lastSeen = s.now()
	return sess.cart
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartCleanup launches a janitor goroutine that evicts idle sessions every
// interval until ctx is cancelled.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle()
			}
		}
	}()
}

// evictIdle drops every session whose last access is older than the TTL.
func (s *Store) evictIdle() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
