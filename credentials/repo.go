package credentials

import (
	"time"

	"golang.org/x/oauth2"
)

// Keys of the session-scoped credential values.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyIsLoggedIn   = "isLoggedIn"
)

// Credentials is what one browser session holds.
type Credentials struct {
	// Token carries the access and refresh tokens, nil when none are stored
	Token *oauth2.Token

	LoggedIn bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repo interface {
	Upsert(sessionID string, c Credentials) error
	Get(sessionID string) (Credentials, error)
	Delete(sessionID string) error
}

func (c Credentials) accessToken() string {
	if c.Token == nil {
		return ""
	}
	return c.Token.AccessToken
}

func (c Credentials) refreshToken() string {
	if c.Token == nil {
		return ""
	}
	return c.Token.RefreshToken
}

func (c Credentials) clone() Credentials {
	if c.Token != nil {
		token := *c.Token
		c.Token = &token
	}
	return c
}
