// Package autocomplete debounces address lookups typed into a search box.
package autocomplete

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jrsteele09/go-route-finder/internal/metrics"
)

const (
	DefaultMinChars = 3
	DefaultDelay    = 300 * time.Millisecond
)

// LookupFunc fetches the candidates for a query.
type LookupFunc[T any] func(ctx context.Context, query string) ([]T, error)

type Option func(*settings)

type settings struct {
	minChars int
	delay    time.Duration
}

// WithMinChars sets how many characters are needed before a lookup is made.
func WithMinChars(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.minChars = n
		}
	}
}

// WithDelay sets the debounce window. Zero dispatches immediately.
func WithDelay(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// Debouncer serves the suggestions of one search box. Every input gets an
// increasing id: an input superseded during the debounce window never makes
// a request, and a response that arrives after a newer input was dispatched
// or answered from cache is dropped.
type Debouncer[T any] struct {
	lookup   LookupFunc[T]
	minChars int
	delay    time.Duration

	mu         sync.Mutex
	seq        uint64 // id of the newest input
	answered   uint64 // id of the newest lookup dispatched or answered from cache
	lastQuery  string
	lastResult []T
	hasLast    bool
}

func NewDebouncer[T any](lookup LookupFunc[T], opts ...Option) *Debouncer[T] {
	s := settings{minChars: DefaultMinChars, delay: DefaultDelay}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return &Debouncer[T]{
		lookup:   lookup,
		minChars: s.minChars,
		delay:    s.delay,
	}
}

// Suggest returns the candidates for input. Input shorter than the minimum
// returns an empty list without a lookup. Otherwise the call waits out the
// debounce window and returns ErrSuperseded if newer input arrived, the
// previous result if the query is unchanged, or the lookup's result. Queries
// are compared case-insensitively, so "Leeds" reuses the result for "leeds".
// A lookup overtaken by a newer lookup or cached answer returns ErrStale.
func (d *Debouncer[T]) Suggest(ctx context.Context, input string) ([]T, error) {
	query := strings.TrimSpace(input)

	d.mu.Lock()
	d.seq++
	id := d.seq
	d.mu.Unlock()

	if utf8.RuneCountInString(query) < d.minChars {
		metrics.AutocompleteLookups.WithLabelValues("skipped").Inc()
		return []T{}, nil
	}

	if d.delay > 0 {
		timer := time.NewTimer(d.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	d.mu.Lock()
	if id != d.seq {
		d.mu.Unlock()
		metrics.AutocompleteLookups.WithLabelValues("superseded").Inc()
		return nil, ErrSuperseded
	}
	if d.hasLast && strings.EqualFold(query, d.lastQuery) {
		d.answered = id
		result := append([]T{}, d.lastResult...)
		d.mu.Unlock()
		metrics.AutocompleteLookups.WithLabelValues("cached").Inc()
		return result, nil
	}
	d.answered = id
	d.mu.Unlock()

	metrics.AutocompleteLookups.WithLabelValues("dispatched").Inc()
	result, err := d.lookup(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if id < d.answered {
		metrics.AutocompleteLookups.WithLabelValues("stale").Inc()
		return nil, ErrStale
	}
	if err != nil {
		metrics.AutocompleteLookups.WithLabelValues("error").Inc()
		return nil, err
	}
	if result == nil {
		result = []T{}
	}
	d.lastQuery = query
	d.lastResult = append([]T{}, result...)
	d.hasLast = true
	return result, nil
}

// Reset forgets the cached result, e.g. when the search box is cleared.
func (d *Debouncer[T]) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.lastQuery = ""
	d.lastResult = nil
	d.hasLast = false
}
