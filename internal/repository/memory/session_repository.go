package memory

import (
	"strings"
	"sync"
	"time"

	"digital-twin-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// sessionTTL is how long an idle session survives before go-cache purges it.
// A matching manual sweep runs from cmd/rest so eviction is observable.
const sessionTTL = 24 * time.Hour

type SessionRepository struct {
	cache *cache.Cache
	// Guards in-place mutation of cached sessions. go-cache only protects
	// the map, not the values.
	mu sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(sessionTTL, 30*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// GetOrCreate returns the session for sessionID, creating an empty one if
// this is the visitor's first turn.
func (r *SessionRepository) GetOrCreate(sessionID string) *store.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreateLocked(sessionID)
}

func (r *SessionRepository) getOrCreateLocked(sessionID string) *store.Session {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session)
	}

	now := time.Now()
	session := &store.Session{
		ID:                sessionID,
		CreatedAt:         now,
		LastUpdatedAt:     now,
		PreferredLanguage: store.LangEnglish,
	}
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return session
}

// Append records one turn and refreshes the session's idle timer.
func (r *SessionRepository) Append(sessionID, role, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.getOrCreateLocked(sessionID)
	now := time.Now()
	session.Turns = append(session.Turns, store.Turn{
		Role:      role,
		Text:      text,
		Timestamp: now,
	})
	session.LastUpdatedAt = now
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
}

// Seed replaces a session's turns with client-supplied history. Used when a
// request carries history but no known session.
func (r *SessionRepository) Seed(sessionID string, turns []store.Turn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.getOrCreateLocked(sessionID)
	now := time.Now()
	session.Turns = make([]store.Turn, len(turns))
	copy(session.Turns, turns)
	for i := range session.Turns {
		if session.Turns[i].Timestamp.IsZero() {
			session.Turns[i].Timestamp = now
		}
	}
	session.LastUpdatedAt = now
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
}

// History returns up to limit most recent turns, oldest first. limit <= 0
// means all turns.
func (r *SessionRepository) History(sessionID string, limit int) []store.Turn {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionID)
	if !found {
		return nil
	}
	session := x.(*store.Session)

	turns := session.Turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	out := make([]store.Turn, len(turns))
	copy(out, turns)
	return out
}

// Context renders the recent transcript as role-labeled lines for prompt
// inclusion, most recent last.
func (r *SessionRepository) Context(sessionID string, limit int) string {
	turns := r.History(sessionID, limit)
	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		label := "User"
		if turn.Role == store.RoleAssistant {
			label = "Assistant"
		}
		b.WriteString(label + ": " + turn.Text)
	}
	return b.String()
}

// SetPreferredLanguage updates the visitor's language only when it changed,
// so a one-off English aside does not churn the stored preference timestamp.
func (r *SessionRepository) SetPreferredLanguage(sessionID, lang string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.getOrCreateLocked(sessionID)
	if session.PreferredLanguage == lang {
		return
	}
	session.PreferredLanguage = lang
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) PreferredLanguage(sessionID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session).PreferredLanguage
	}
	return store.LangEnglish
}

// EvictOlderThan removes sessions idle for longer than maxAge and returns
// how many were dropped.
func (r *SessionRepository) EvictOlderThan(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	evicted := 0
	for id, item := range r.cache.Items() {
		session, ok := item.Object.(*store.Session)
		if !ok {
			continue
		}
		if session.LastUpdatedAt.Before(cutoff) {
			r.cache.Delete(id)
			evicted++
		}
	}
	return evicted
}

func (r *SessionRepository) Len() int {
	return r.cache.ItemCount()
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
