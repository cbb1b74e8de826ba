package model

import (
	"context"
	"time"
)

// TokenStorageKey is the fixed key the credential token is persisted under.
const TokenStorageKey = "token"

// TokenStore persists the credential token across restarts.
//
// Load returns an empty string when nothing usable is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// TokenInspector checks a token locally before it is sent anywhere.
type TokenInspector interface {
	Check(token string, now time.Time) error
}
