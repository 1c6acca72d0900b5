package cart

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront/internal/infrastructure/storage"
)

// DefaultSessionIdle is how long an untouched session stays in memory
const DefaultSessionIdle = 30 * time.Minute

type session struct {
	store    *Store
	lastSeen time.Time
}

// Registry hands out one store per browser session. Each session's cart is
// persisted under the usual key inside its own namespace. Sessions idle for
// longer than the idle timeout are dropped from memory and reloaded from
// storage on their next request.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*session
	idle      time.Duration
	nextSweep time.Time
	now       func() time.Time

	base   storage.Storage
	key    string
	rules  PricingRules
	logger logrus.FieldLogger
}

// NewRegistry creates a registry over base storage. An idle timeout <= 0
// uses DefaultSessionIdle.
func NewRegistry(base storage.Storage, key string, rules PricingRules, idle time.Duration, logger logrus.FieldLogger) *Registry {
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &Registry{
		sessions: make(map[string]*session),
		idle:     idle,
		now:      time.Now,
		base:     base,
		key:      key,
		rules:    rules,
		logger:   logger,
	}
}

// Get returns the session's store, loading it from storage on first use
// or after it was evicted
func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	if s, ok := r.sessions[sessionID]; ok {
		s.lastSeen = now
		return s.store
	}

	ns := storage.WithPrefix(r.base, SessionPrefix(sessionID))
	s := Open(ctx, ns, r.key, r.rules, r.logger.WithField("session_id", sessionID))
	r.sessions[sessionID] = &session{store: s, lastSeen: now}
	return s
}

// sweep evicts idle sessions, at most once per half idle period. Callers hold mu.
func (r *Registry) sweep(now time.Time) {
	if now.Before(r.nextSweep) {
		return
	}
	r.nextSweep = now.Add(r.idle / 2)

	evicted := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.idle {
			delete(r.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.WithFields(logrus.Fields{
			"evicted": evicted,
			"active":  len(r.sessions),
		}).Debug("Evicted idle cart sessions")
	}
}

// Forget drops the in-memory store; the persisted cart is kept
func (r *Registry) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}

// Len returns the number of sessions held in memory
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// IdleTimeout returns how long an untouched session is kept in memory
func (r *Registry) IdleTimeout() time.Duration {
	return r.idle
}

// Rules returns the pricing rules shared by every session
func (r *Registry) Rules() PricingRules {
	return r.rules
}

// SessionPrefix is the storage namespace of one session
func SessionPrefix(sessionID string) string {
	return "session:" + sessionID + ":"
}
