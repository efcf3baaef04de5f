// Package session owns the authenticated identity: it restores a persisted
// identity on startup, activates new identities on login/signup, and clears
// everything on logout or credential rejection. The identity lives in one
// place only; consumers receive the store by injection.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"encoding/json"

	"github.com/golang-jwt/jwt/v5"

	"clinicbook/internal/client/api"
	"clinicbook/internal/clinic"
	"clinicbook/internal/common"
)

// ErrNoIdentity is returned when the auth endpoint answered without an
// identity payload: credentials rejected or malformed server response.
var ErrNoIdentity = errors.New("no identity returned by server")

// Store holds the active identity and its single-slot persisted copy.
// Last writer wins; every successful login/signup overwrites the slot.
type Store struct {
	gw   api.Gateway
	file string

	mu      sync.RWMutex
	current *clinic.Identity
}

// New builds a Store persisting to file. The file is created on first
// successful login/signup.
func New(gw api.Gateway, file string) *Store {
	return &Store{gw: gw, file: file}
}

// Current returns the active identity, or nil when nobody is logged in.
func (s *Store) Current() *clinic.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the active identity's bearer credential, or "".
// It satisfies api.TokenFunc.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Restore loads a previously persisted identity, if any, and makes it the
// active one. A missing file or malformed slot leaves the session empty;
// no error is surfaced either way.
func (s *Store) Restore() *clinic.Identity {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return nil
	}
	var id clinic.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil
	}
	if !wellFormed(&id) {
		return nil
	}
	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	return &id
}

// wellFormed checks the persisted slot before trusting it: the core fields
// must be present, the role known, and the token must at least parse as a
// JWT. Expiry stays the server's call; any 401 later invalidates the session.
func wellFormed(id *clinic.Identity) bool {
	if id.ID == "" || id.Email == "" || id.Token == "" {
		return false
	}
	if !id.Role.Valid() {
		return false
	}
	if _, _, err := jwt.NewParser().ParseUnverified(id.Token, jwt.MapClaims{}); err != nil {
		return false
	}
	return true
}

// Login authenticates against the API and, on success, persists and
// activates the returned identity. An answer without an identity payload
// yields ErrNoIdentity; other endpoint rejections propagate unchanged.
func (s *Store) Login(ctx context.Context, email, password string) (*clinic.Identity, error) {
	if strings.TrimSpace(email) == "" {
		return nil, common.NewValidationError("email", "is required")
	}
	if password == "" {
		return nil, common.NewValidationError("password", "is required")
	}

	id, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, ErrNoIdentity
	}
	if err := s.activate(id); err != nil {
		return nil, err
	}
	return id, nil
}

// Signup registers a new account and activates the returned identity under
// the same contract as Login. New identities always carry the user role:
// role elevation is an administrative action, never settable from here.
func (s *Store) Signup(ctx context.Context, req api.RegisterRequest) (*clinic.Identity, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, common.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, common.NewValidationError("email", "is required")
	}
	if len(req.Password) < common.MinPasswordLength {
		return nil, common.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", common.MinPasswordLength))
	}

	id, err := s.gw.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, ErrNoIdentity
	}
	id.Role = clinic.RoleUser
	if err := s.activate(id); err != nil {
		return nil, err
	}
	return id, nil
}

// Logout clears the active and persisted identity unconditionally.
// Safe to call when nobody is logged in.
func (s *Store) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	_ = os.Remove(s.file)
}

// activate persists id and makes it current. Persist failures leave the
// in-memory session untouched so a failed write cannot half-apply.
func (s *Store) activate(id *clinic.Identity) error {
	if err := s.persist(id); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
	return nil
}

// persist writes the single-slot file atomically: temp file in the same
// directory, then rename.
func (s *Store) persist(id *clinic.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.file)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.file)
}
