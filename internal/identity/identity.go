// Package identity persists the authenticated user and their session
// credential locally, and answers "who is logged in" without a network round
// trip. The credential is the opaque session cookie the server issued at
// login; it is written next to the identity so a new process can resume the
// session, and the identity only counts as logged in while a credential is
// present.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"practica/internal/client"
)

type Identity struct {
	UserID   int32  `json:"user_id"`
	UserName string `json:"user_name"`
}

// record is the on-disk shape: the identity plus the session credential
// issued for it.
type record struct {
	Identity
	Credential string `json:"credential,omitempty"`
}

type Store struct {
	path string
	api  *client.Client
}

// NewStore builds a store over the identity file. Any persisted credential is
// seeded into the client's cookie jar so calls made by a fresh process carry
// the session cookie.
func NewStore(path string, api *client.Client) *Store {
	s := &Store{path: path, api: api}
	if rec, ok := s.read(); ok && api != nil {
		api.SetSessionCredential(rec.Credential)
	}
	return s
}

// DefaultPath places the identity file under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "practica", "identity.json"), nil
}

// Current returns the persisted identity, if any. An identity without a
// credential reads as logged out: the server would reject every call anyway.
func (s *Store) Current() (Identity, bool) {
	rec, ok := s.read()
	if !ok || rec.Credential == "" {
		return Identity{}, false
	}
	return rec.Identity, true
}

// Login authenticates against the server and persists the returned identity
// together with the session cookie the server set. On failure nothing is
// stored and the stored state is left untouched.
func (s *Store) Login(ctx context.Context, userName, password string, onSuccess func(Identity), onError func(string)) {
	s.api.Login(ctx, userName, password, func(userID int32, name string) {
		rec := record{
			Identity:   Identity{UserID: userID, UserName: name},
			Credential: s.api.SessionCredential(),
		}
		if err := s.set(rec); err != nil {
			onError(err.Error())
			return
		}
		onSuccess(rec.Identity)
	}, onError)
}

// Logout ends the server session and clears the persisted identity. When the
// server rejects the call the local identity is cleared anyway: the
// credential is dead either way, and keeping it would leave the store
// claiming a login that is gone.
func (s *Store) Logout(ctx context.Context, onSuccess func(), onError func(string)) {
	s.api.Logout(ctx, func() {
		if err := s.clear(); err != nil {
			onError(err.Error())
			return
		}
		onSuccess()
	}, func(msg string) {
		s.clear()
		onError(msg)
	})
}

// Forget drops the local identity without contacting the server. Used when a
// call has already shown the server no longer honors the credential.
func (s *Store) Forget() {
	s.clear()
}

func (s *Store) read() (record, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return record{}, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return record{}, false
	}
	return rec, true
}

func (s *Store) set(rec record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create identity dir: %w", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write identity: %w", err)
	}
	return nil
}

func (s *Store) clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear identity: %w", err)
	}
	return nil
}
