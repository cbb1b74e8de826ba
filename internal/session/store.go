package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/scanportal-client/internal/logger"
	"github.com/dtroode/scanportal-client/internal/model"
)

// loginFailedMessage is shown when the backend gives no reason for a failed login.
const loginFailedMessage = "Login failed"

// Store owns the credential token and the signed-in user.
//
// Session state changes only through Bootstrap, Login and Logout.
type Store struct {
	mu        sync.RWMutex
	session   model.Session
	state     model.SessionState
	listeners map[int]func(model.Session)
	nextID    int

	backend   model.AuthBackend
	tokens    model.TokenStore
	inspector model.TokenInspector
	logger    *logger.Logger
	now       func() time.Time
}

// NewStore creates a session store. The session starts out initializing, so
// route decisions wait for Bootstrap. inspector may be nil.
func NewStore(
	backend model.AuthBackend,
	tokens model.TokenStore,
	inspector model.TokenInspector,
	logger *logger.Logger,
) *Store {
	return &Store{
		session:   model.Session{Initializing: true},
		state:     model.StateUnbootstrapped,
		listeners: make(map[int]func(model.Session)),
		backend:   backend,
		tokens:    tokens,
		inspector: inspector,
		logger:    logger,
		now:       time.Now,
	}
}

// Bootstrap restores the session from the persisted token. Any failure clears
// the token and leaves the session anonymous; it is never returned to the caller.
// Only the first call does anything.
func (s *Store) Bootstrap(ctx context.Context) {
	s.mu.Lock()
	if s.state != model.StateUnbootstrapped {
		s.mu.Unlock()
		return
	}
	s.state = model.StateBootstrapping
	s.mu.Unlock()

	s.logger.Debug("Session: bootstrapping")

	token, user := s.restore(ctx)

	s.mu.Lock()
	if s.state != model.StateBootstrapping {
		// A login finished first and already settled the session.
		s.mu.Unlock()
		s.logger.Debug("Session: bootstrap result discarded after login")
		return
	}
	if user != nil {
		s.session.Token = token
		s.session.User = user
		s.state = model.StateAuthenticated
	} else {
		s.state = model.StateAnonymous
	}
	s.session.Initializing = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if user != nil {
		s.logger.Info("Session: restored", "user", user.Name, "role", user.Role)
	} else {
		s.logger.Debug("Session: no session to restore")
	}
	s.notify(snapshot)
}

func (s *Store) restore(ctx context.Context) (string, *model.UserIdentity) {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.discard(ctx, "failed to load stored token", err)
		return "", nil
	}
	if token == "" {
		return "", nil
	}

	if s.inspector != nil {
		if err := s.inspector.Check(token, s.now()); err != nil {
			s.discard(ctx, "stored token rejected locally", err)
			return "", nil
		}
	}

	user, err := s.backend.Profile(ctx, token)
	if err != nil {
		s.discard(ctx, "profile check failed", err)
		return "", nil
	}
	if !user.Role.Valid() {
		s.discard(ctx, "profile has unknown role", fmt.Errorf("role %q", user.Role))
		return "", nil
	}

	return token, &user
}

func (s *Store) discard(ctx context.Context, reason string, cause error) {
	s.logger.Warn("Session: "+reason+", signing out",
		"error", cause.Error())

	if s.State() != model.StateBootstrapping {
		return
	}
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Error("Session: failed to clear stored token",
			"error", err.Error())
	}
}

// Login signs in with the given credentials. On failure the session is left
// untouched and the result carries a message for the user.
func (s *Store) Login(ctx context.Context, email, password string) model.LoginResult {
	s.logger.Debug("Session: logging in", "email", email)

	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.logger.Info("Session: login rejected",
			"email", email,
			"error", err.Error())
		return model.LoginResult{Message: model.UserMessage(err, loginFailedMessage)}
	}
	if resp.Token == "" {
		s.logger.Warn("Session: login returned no token",
			"email", email)
		return model.LoginResult{Message: loginFailedMessage}
	}
	if !resp.User.Role.Valid() {
		s.logger.Warn("Session: login returned unknown role",
			"email", email,
			"role", resp.User.Role)
		return model.LoginResult{Message: loginFailedMessage}
	}

	if err := s.tokens.Save(ctx, resp.Token); err != nil {
		s.logger.Error("Session: failed to persist token, session will not survive restart",
			"error", err.Error())
	}

	user := resp.User
	s.mu.Lock()
	s.session = model.Session{Token: resp.Token, User: &user}
	s.state = model.StateAuthenticated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("Session: logged in", "user", user.Name, "role", user.Role)
	s.notify(snapshot)

	return model.LoginResult{Success: true}
}

// Logout clears the session and the persisted token. The in-memory session is
// anonymous when Logout returns; no backend call is made.
func (s *Store) Logout() {
	s.mu.Lock()
	s.session = model.Session{}
	s.state = model.StateAnonymous
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.tokens.Clear(context.Background()); err != nil {
		s.logger.Error("Session: failed to clear stored token on logout",
			"error", err.Error())
	}

	s.logger.Info("Session: logged out")
	s.notify(snapshot)
}

// OnChange registers fn to be called with the new session after every
// transition. The returned func unregisters it.
func (s *Store) OnChange(fn func(model.Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(snapshot model.Session) {
	s.mu.RLock()
	fns := make([]func(model.Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() model.Session {
	out := s.session
	if s.session.User != nil {
		user := *s.session.User
		out.User = &user
	}
	return out
}

// State returns the lifecycle state.
func (s *Store) State() model.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the current credential token, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated()
}

func (s *Store) IsTechnician() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsTechnician()
}

func (s *Store) IsDentist() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsDentist()
}

func (s *Store) IsInitializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Initializing
}
