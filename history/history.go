// Package history keeps each user's route searches, oldest first.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-route-finder/internal/errors"
)

// Slot is the search box an entry was typed into.
type Slot string

const (
	SlotStart Slot = "start"
	SlotEnd   Slot = "end"
)

func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToLower(strings.TrimSpace(s))) {
	case SlotStart:
		return SlotStart, nil
	case SlotEnd:
		return SlotEnd, nil
	default:
		return "", fmt.Errorf("unknown search slot %q: %w", s, errors.ErrInvalidInput)
	}
}

type Entry struct {
	Term      string    `json:"term"`
	Slot      Slot      `json:"slot"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is an append only list of entries per owner. There is no eviction.
type Store interface {
	Append(ctx context.Context, owner string, entry Entry) error
	List(ctx context.Context, owner string) ([]Entry, error)
	Clear(ctx context.Context, owner string) error
	Close() error
}

// NowTimeFunc stamps entries appended without a timestamp.
var NowTimeFunc = time.Now

// InMemory is the HISTORY_FOLDER value selecting the in-memory store.
const InMemory = "memory"

// Open returns the in-memory store for "memory" and a Badger store rooted at
// folder otherwise.
func Open(folder string) (Store, error) {
	if folder == InMemory {
		return NewInMemoryStore(), nil
	}
	return OpenBadgerStore(folder)
}

func normalise(owner string, entry Entry) (Entry, error) {
	if owner == "" {
		return Entry{}, fmt.Errorf("owner is required: %w", errors.ErrInvalidInput)
	}
	entry.Term = strings.TrimSpace(entry.Term)
	if entry.Term == "" {
		return Entry{}, fmt.Errorf("search term is required: %w", errors.ErrInvalidInput)
	}
	slot, err := ParseSlot(string(entry.Slot))
	if err != nil {
		return Entry{}, err
	}
	entry.Slot = slot
	if entry.Timestamp.IsZero() {
		entry.Timestamp = NowTimeFunc()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	return entry, nil
}
