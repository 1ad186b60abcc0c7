package service

import (
	"context"
	"sync"
	"time"

	"github.com/ReneKroon/ttlcache"
	"github.com/reshetovitsme/contentguard/internal/modules/compose/domain"
)

// entry guards one session and the cancel func of its outstanding analysis
type entry struct {
	mu      sync.Mutex
	session domain.Session
	cancel  context.CancelFunc
}

// stopAnalysis cancels the outstanding moderation call, if any. Caller holds mu.
func (e *entry) stopAnalysis() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// SessionStore keeps sessions in memory and drops them after ttl without access
type SessionStore struct {
	cache *ttlcache.Cache
}

// NewSessionStore creates a store with the given idle ttl
func NewSessionStore(ttl time.Duration) *SessionStore {
	cache := ttlcache.NewCache()
	cache.SetTTL(ttl)
	cache.SetExpirationCallback(func(key string, value interface{}) {
		if e, ok := value.(*entry); ok {
			e.mu.Lock()
			e.stopAnalysis()
			e.mu.Unlock()
		}
	})
	return &SessionStore{cache: cache}
}

func (s *SessionStore) put(e *entry) {
	s.cache.Set(e.session.ID, e)
}

func (s *SessionStore) get(id string) (*entry, bool) {
	value, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	e, ok := value.(*entry)
	return e, ok
}

// Count returns the number of live sessions
func (s *SessionStore) Count() int {
	return s.cache.Count()
}

// Close stops the expiry loop
func (s *SessionStore) Close() {
	s.cache.Close()
}
