package history

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-route-finder/internal/errors"
	"github.com/jrsteele09/go-route-finder/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	historyKeyPrefix   = "history:"
	historySequenceKey = "history_seq"
)

// BadgerStore implements Store on BadgerDB so history survives restarts.
// Keys are history:<hex owner>:<sequence>, so iteration follows append order.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// OpenBadgerStore opens, or creates, the database in folder.
func OpenBadgerStore(folder string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(folder)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("[history OpenBadgerStore] open %s: %w", folder, err)
	}
	store, err := NewBadgerStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info().Str("folder", folder).Msg("[history] search history opened")
	return store, nil
}

// NewBadgerStore wraps an open database. Close closes it.
func NewBadgerStore(db *badger.DB) (*BadgerStore, error) {
	seq, err := db.GetSequence([]byte(historySequenceKey), 100)
	if err != nil {
		return nil, fmt.Errorf("[history NewBadgerStore] sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

func ownerPrefix(owner string) []byte {
	return []byte(historyKeyPrefix + hex.EncodeToString([]byte(owner)) + ":")
}

func (s *BadgerStore) Append(_ context.Context, owner string, entry Entry) error {
	entry, err := normalise(owner, entry)
	if err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	next, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("next history key: %w", err)
	}
	key := fmt.Sprintf("%s%020d", ownerPrefix(owner), next)

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("set history entry: %w", err)
	}
	metrics.HistoryAppends.Inc()
	return nil
}

func (s *BadgerStore) List(_ context.Context, owner string) ([]Entry, error) {
	entries := []Entry{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := ownerPrefix(owner)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

func (s *BadgerStore) Clear(_ context.Context, owner string) error {
	if err := s.db.DropPrefix(ownerPrefix(owner)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	if err := s.seq.Release(); err != nil {
		log.Warn().Err(err).Msg("[history] failed to release key sequence")
	}
	return s.db.Close()
}
