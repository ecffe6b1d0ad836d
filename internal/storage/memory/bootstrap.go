package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/mesikahq/gestion-salud/internal/auth"
	"github.com/mesikahq/gestion-salud/internal/donation"
)

// Acquire implements the seed-marker contract: true exactly once per name.
func (s *Store) Acquire(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.markers[name] {
		return false, nil
	}
	s.markers[name] = true
	return true, nil
}

// EnsureAdmin creates the administrative account once; later calls are
// no-ops.
func (s *Store) EnsureAdmin(_ context.Context, username, email, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return nil
	}
	s.users[username] = userAccount{
		Username: username,
		Email:    email,
		Roles:    []string{auth.RoleAdmin},
	}
	return nil
}

// UserCount reports the number of accounts, for bootstrap assertions.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// HasUser reports whether an account with the username exists.
func (s *Store) HasUser(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[username]
	return ok
}

type memVault struct {
	s *Store
}

// DocumentVault returns an in-process document vault.
func (s *Store) DocumentVault() donation.Vault {
	return &memVault{s: s}
}

var _ donation.Vault = (*memVault)(nil)

func (v *memVault) Put(_ context.Context, filename string, data []byte) (string, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	ref := uuid.New().String()
	stored := make([]byte, len(data))
	copy(stored, data)
	v.s.vault[ref] = vaultEntry{Filename: filename, Data: stored}
	return ref, nil
}

func (v *memVault) Get(_ context.Context, ref string) ([]byte, string, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	entry, ok := v.s.vault[ref]
	if !ok {
		return nil, "", donation.ErrNoDocument
	}
	data := make([]byte, len(entry.Data))
	copy(data, entry.Data)
	return data, entry.Filename, nil
}

func (v *memVault) Remove(_ context.Context, ref string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.vault[ref]; !ok {
		return donation.ErrNoDocument
	}
	delete(v.s.vault, ref)
	return nil
}
