package memory

import (
	"sync"
	"time"

	"rainier-guide-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps visitor sessions in process, expiring after ttl of inactivity.
type SessionRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
	now   func() time.Time
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
		now:   time.Now,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

// Get returns a copy so callers cannot race on the stored session.
func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		s := *x.(*store.Session)
		return &s, true
	}
	return nil, false
}

// Update applies fn to the session (created if missing) and refreshes its expiry.
func (r *SessionRepository) Update(sessionID string, fn func(s *store.Session)) store.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &store.Session{ID: sessionID}
	if x, found := r.cache.Get(sessionID); found {
		copied := *x.(*store.Session)
		s = &copied
	}
	fn(s)
	s.UpdatedAt = r.now()
	r.cache.Set(sessionID, s, cache.DefaultExpiration)
	return *s
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
