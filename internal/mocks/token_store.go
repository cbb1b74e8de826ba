package mocks

import (
	"context"
	"sync"

	"github.com/dtroode/scanportal-client/internal/model"
)

var _ model.TokenStore = (*TokenStore)(nil)

// TokenStore is an in-memory model.TokenStore with injectable failures.
type TokenStore struct {
	mu       sync.Mutex
	Token    string
	LoadErr  error
	SaveErr  error
	ClearErr error
	Saves    int
	Clears   int
}

func (s *TokenStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return "", s.LoadErr
	}
	return s.Token, nil
}

func (s *TokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Token = token
	return nil
}

func (s *TokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clears++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.Token = ""
	return nil
}

// Stored returns the currently stored token.
func (s *TokenStore) Stored() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Token
}
