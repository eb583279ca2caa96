package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the bearer credential between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the credential in a single file readable only by the
// owner.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Session owns the authenticated identity: either fully populated (token on
// the wire plus resolved user) or empty, never in between.
type Session struct {
	api   *Client
	store TokenStore

	mu   sync.RWMutex
	user *User
}

func NewSession(api *Client, store TokenStore) *Session {
	return &Session{api: api, store: store}
}

// Restore loads the persisted credential and resolves the identity behind
// it. No stored credential is not an error. A credential the server rejects
// is discarded so the next run starts clean.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil {
		return err
	}
	if token == "" {
		s.clear()
		return nil
	}

	s.api.SetToken(token)
	user, err := s.api.Me(ctx)
	if err != nil {
		if errors.Is(err, ErrAuthRequired) || errors.Is(err, ErrNotFound) {
			s.clear()
			return s.store.Clear()
		}
		// Transport failure: keep the stored credential, report the error.
		s.api.SetToken("")
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Login installs a credential and its identity, and persists the credential.
func (s *Session) Login(token string, user User) error {
	s.api.SetToken(token)
	s.mu.Lock()
	u := user
	s.user = &u
	s.mu.Unlock()
	return s.store.Save(token)
}

// SignIn authenticates with the server and installs the resulting session.
func (s *Session) SignIn(ctx context.Context, email, password string) (*User, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.Login(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return s.Current(), nil
}

// SignUp registers a new account and installs the resulting session.
func (s *Session) SignUp(ctx context.Context, name, email, password string) (*User, error) {
	resp, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	s.api.SetToken(resp.Token)

	user, err := s.api.Me(ctx)
	if err != nil {
		s.api.SetToken("")
		return nil, err
	}
	if err := s.Login(resp.Token, *user); err != nil {
		return nil, err
	}
	return s.Current(), nil
}

// Logout drops the identity and the persisted credential.
func (s *Session) Logout() error {
	s.clear()
	return s.store.Clear()
}

// Current returns a copy of the signed-in user, or nil.
func (s *Session) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Authenticated() bool {
	return s.Current() != nil
}

func (s *Session) clear() {
	s.api.SetToken("")
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}
