package credentials

import (
	"fmt"
	"strconv"

	"github.com/jrsteele09/go-route-finder/internal/errors"
	"golang.org/x/oauth2"
)

// Store binds a Repo to one browser session and exposes the session's
// credentials as get/set/clear over the accessToken, refreshToken and
// isLoggedIn keys.
type Store struct {
	repo      Repo
	sessionID string
}

func NewStore(repo Repo, sessionID string) *Store {
	return &Store{repo: repo, sessionID: sessionID}
}

func (s *Store) SessionID() string {
	return s.sessionID
}

// Get returns the value of key and whether a non-empty value is stored.
func (s *Store) Get(key string) (string, bool) {
	c, err := s.repo.Get(s.sessionID)
	if err != nil {
		return "", false
	}

	var value string
	switch key {
	case KeyAccessToken:
		value = c.accessToken()
	case KeyRefreshToken:
		value = c.refreshToken()
	case KeyIsLoggedIn:
		if c.LoggedIn {
			value = strconv.FormatBool(true)
		}
	}
	return value, value != ""
}

// Set stores value under key, creating the session record when needed.
func (s *Store) Set(key, value string) error {
	c := s.load()

	switch key {
	case KeyAccessToken:
		c.Token = tokenWith(c.Token, func(t *oauth2.Token) { t.AccessToken = value })
	case KeyRefreshToken:
		c.Token = tokenWith(c.Token, func(t *oauth2.Token) { t.RefreshToken = value })
	case KeyIsLoggedIn:
		loggedIn, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("[credentials Set] invalid %s value %q: %w", key, value, errors.ErrInvalidInput)
		}
		c.LoggedIn = loggedIn
	default:
		return fmt.Errorf("[credentials Set] unknown key %q: %w", key, errors.ErrUnsupported)
	}

	if err := s.repo.Upsert(s.sessionID, c); err != nil {
		return fmt.Errorf("[credentials Set] %w", err)
	}
	return nil
}

// Clear removes the given keys. Without keys the whole session record is removed.
func (s *Store) Clear(keys ...string) error {
	if len(keys) == 0 {
		return s.repo.Delete(s.sessionID)
	}

	c, err := s.repo.Get(s.sessionID)
	if err != nil {
		return nil // Nothing stored, nothing to clear
	}

	for _, key := range keys {
		switch key {
		case KeyAccessToken:
			c.Token = tokenWith(c.Token, func(t *oauth2.Token) { t.AccessToken = "" })
		case KeyRefreshToken:
			c.Token = tokenWith(c.Token, func(t *oauth2.Token) { t.RefreshToken = "" })
		case KeyIsLoggedIn:
			c.LoggedIn = false
		default:
			return fmt.Errorf("[credentials Clear] unknown key %q: %w", key, errors.ErrUnsupported)
		}
	}
	if c.accessToken() == "" && c.refreshToken() == "" {
		c.Token = nil
	}

	if err := s.repo.Upsert(s.sessionID, c); err != nil {
		return fmt.Errorf("[credentials Clear] %w", err)
	}
	return nil
}

// Login stores a freshly issued token pair and marks the session logged in.
func (s *Store) Login(accessToken, refreshToken string) error {
	c := s.load()
	c.Token = &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}
	if claims, err := ParseClaims(accessToken); err == nil && claims.ExpiresAt != nil {
		c.Token.Expiry = claims.ExpiresAt.Time
	}
	c.LoggedIn = true
	return s.repo.Upsert(s.sessionID, c)
}

// Credentials returns a copy of the stored record.
func (s *Store) Credentials() (Credentials, error) {
	return s.repo.Get(s.sessionID)
}

func (s *Store) load() Credentials {
	c, err := s.repo.Get(s.sessionID)
	if err != nil {
		return Credentials{}
	}
	return c
}

func tokenWith(t *oauth2.Token, update func(*oauth2.Token)) *oauth2.Token {
	next := &oauth2.Token{TokenType: "Bearer"}
	if t != nil {
		copied := *t
		next = &copied
	}
	update(next)
	return next
}
