package config

import (
	"path/filepath"
	"time"

	"github.com/knadh/koanf/v2"
)

type SearchConfig interface {
	GetAutocompleteMinChars() int
	GetAutocompleteDebounce() time.Duration
	GetHistoryFolder() string
}

type Search struct {
	k *koanf.Koanf
}

var _ SearchConfig = Search{}

func (s Search) GetAutocompleteMinChars() int {
	return intValue(s.k, "autocomplete_min_chars", 3)
}

func (s Search) GetAutocompleteDebounce() time.Duration {
	return durationValue(s.k, "autocomplete_debounce", 300*time.Millisecond)
}

// GetHistoryFolder is where the search history database lives. An explicit
// empty HISTORY_FOLDER is not distinguishable from unset, so "memory" selects
// the in-memory store.
func (s Search) GetHistoryFolder() string {
	return stringValue(s.k, "history_folder", filepath.Join(EnvVars{k: s.k}.GetDataFolder(), "history"))
}
