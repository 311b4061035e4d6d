package credentials

import (
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-route-finder/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Credentials // sessionID -> Credentials
	maxAge   time.Duration
}

// NewInMemoryRepo creates a repo whose sessions expire maxAge after their last
// update. A zero maxAge keeps sessions until they are deleted.
func NewInMemoryRepo(maxAge time.Duration) *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]Credentials),
		maxAge:   maxAge,
	}
}

// Upsert creates or updates the credentials of a session
func (r *InMemoryRepo) Upsert(sessionID string, c Credentials) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := NowTimeFunc()
	if existing, ok := r.sessions[sessionID]; ok {
		c.CreatedAt = existing.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	// Store a copy to avoid external modifications
	r.sessions[sessionID] = c.clone()
	return nil
}

// Get retrieves the credentials of a session
func (r *InMemoryRepo) Get(sessionID string) (Credentials, error) {
	if sessionID == "" {
		return Credentials{}, fmt.Errorf("sessionID is required")
	}

	r.mu.RLock()
	c, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok {
		return Credentials{}, errors.ErrSessionNotFound
	}
	if r.maxAge > 0 && NowTimeFunc().Sub(c.UpdatedAt) > r.maxAge {
		_ = r.Delete(sessionID)
		return Credentials{}, errors.ErrSessionExpired
	}
	return c.clone(), nil
}

// Delete removes a session
func (r *InMemoryRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}
