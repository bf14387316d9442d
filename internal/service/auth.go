package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// AuthService keeps the single signed-in identity and persists it across restarts.
type AuthService struct {
	notifier

	// roster holds the users allowed to log in.
	roster UserRepository
	// kv persists the current identity.
	kv  KeyValueStore
	log *zap.Logger

	mu       sync.RWMutex
	user     string
	signedIn bool
}

// NewAuthService constructs an AuthService with nobody signed in.
// Call Load to restore a persisted identity.
func NewAuthService(roster UserRepository, kv KeyValueStore, log *zap.Logger) *AuthService {
	return &AuthService{roster: roster, kv: kv, log: log}
}

// Load restores the identity saved by a previous Login. If the stored value
// cannot be read, nobody is signed in and the error is returned for reporting.
func (s *AuthService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user, s.signedIn = "", false

	v, ok, err := s.kv.Get(ctx, KeyCurrentUser)
	if err != nil {
		return fmt.Errorf("load identity: %w", err)
	}
	if ok && v != "" {
		s.user, s.signedIn = v, true
	}
	return nil
}

// CurrentUser returns the signed-in username, if any.
func (s *AuthService) CurrentUser() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.signedIn
}

// Login signs username in when the roster holds exactly that username and password.
// A mismatch returns false and leaves the current identity untouched.
// An error is returned only when the roster or the storage fails.
func (s *AuthService) Login(ctx context.Context, username, password string) (bool, error) {
	if username == "" {
		return false, nil
	}

	u, err := s.roster.FindUser(ctx, username)
	if err != nil {
		return false, fmt.Errorf("find user: %w", err)
	}
	if u == nil || u.Username != username || u.Password != password {
		s.log.Info("login rejected", zap.String("username", username))
		return false, nil
	}

	s.mu.Lock()
	if err := s.kv.Set(ctx, KeyCurrentUser, username); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("persist identity: %w", err)
	}
	s.user, s.signedIn = username, true
	s.mu.Unlock()

	s.log.Info("user logged in", zap.String("username", username))
	s.publish(Event{Kind: EventLogin, UserID: username})
	return true, nil
}

// Logout clears the identity and its persisted copy. Calling it while signed out is a no-op.
func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	if err := s.kv.Delete(ctx, KeyCurrentUser); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("remove identity: %w", err)
	}
	user, was := s.user, s.signedIn
	s.user, s.signedIn = "", false
	s.mu.Unlock()

	if was {
		s.log.Info("user logged out", zap.String("username", user))
		s.publish(Event{Kind: EventLogout, UserID: user})
	}
	return nil
}
