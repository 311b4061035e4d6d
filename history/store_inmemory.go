package history

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-route-finder/internal/metrics"
)

// InMemoryStore is an in-memory implementation of Store
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry // owner -> entries
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string][]Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, owner string, entry Entry) error {
	entry, err := normalise(owner, entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[owner] = append(s.entries[owner], entry)
	metrics.HistoryAppends.Inc()
	return nil
}

func (s *InMemoryStore) List(_ context.Context, owner string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry{}, s.entries[owner]...), nil
}

func (s *InMemoryStore) Clear(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, owner)
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}
