// Package session keeps one dataset slot per browser session.
//
// Each session owns a core.Loader, so an upload in one browser never
// replaces the dataset another browser is searching. Sessions live in an
// in-memory go-cache and expire after a period of inactivity; every access
// refreshes the expiry.
package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/JonMunkholm/autoimmunedb/internal/core"
)

// Session is one browser's state.
type Session struct {
	ID        string
	CreatedAt time.Time
	Loader    *core.Loader
}

// Store holds sessions keyed by ID.
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore creates a store whose sessions expire after ttl without use.
// Expired sessions are purged every cleanup interval.
func NewStore(ttl, cleanup time.Duration) *Store {
	c := cache.New(ttl, cleanup)
	c.OnEvicted(func(id string, v interface{}) {
		sess := v.(*Session)
		slog.Debug("session expired",
			"session_id", id,
			"age", time.Since(sess.CreatedAt).Round(time.Second),
		)
	})
	return &Store{cache: c, ttl: ttl}
}

// Ensure returns the session for id, creating a fresh one when id is
// empty, malformed, or expired. created reports whether a new session
// was made, in which case the caller must hand the new ID to the client.
func (s *Store) Ensure(id string) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}

	sess = &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Loader:    core.NewLoader(),
	}
	s.cache.SetDefault(sess.ID, sess)
	return sess, true
}

// Get returns an existing session and refreshes its expiry.
func (s *Store) Get(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	s.cache.SetDefault(id, sess)
	return sess, true
}

// Count returns the number of live sessions, including expired ones not yet purged.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}

// TTL returns the idle expiry applied to sessions.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Flush drops every session.
func (s *Store) Flush() {
	s.cache.Flush()
}
