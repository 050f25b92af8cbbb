package memvault

// Package memvault is an in-memory IdentityVault for tests and single
// process development runs.

import (
	"context"
	"sync"

	"github.com/placementhub/portal-api/internal/ports"
)

// Vault stores one identity payload per client key.
type Vault struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// New creates an empty in-memory vault.
func New() *Vault {
	return &Vault{slots: make(map[string][]byte)}
}

// ForClient returns the vault slot for one client.
func (v *Vault) ForClient(clientID string) *Slot {
	return &Slot{vault: v, clientID: clientID}
}

// Slot is a single client's view of the vault.
type Slot struct {
	vault    *Vault
	clientID string
}

var _ ports.IdentityVault = (*Slot)(nil)

func (s *Slot) ReadIdentity(_ context.Context) ([]byte, error) {
	s.vault.mu.RLock()
	defer s.vault.mu.RUnlock()
	payload, ok := s.vault.slots[s.clientID]
	if !ok {
		return nil, ports.ErrIdentityAbsent
	}
	return append([]byte(nil), payload...), nil
}

func (s *Slot) WriteIdentity(_ context.Context, payload []byte) error {
	s.vault.mu.Lock()
	defer s.vault.mu.Unlock()
	s.vault.slots[s.clientID] = append([]byte(nil), payload...)
	return nil
}

func (s *Slot) ClearIdentity(_ context.Context) error {
	s.vault.mu.Lock()
	defer s.vault.mu.Unlock()
	delete(s.vault.slots, s.clientID)
	return nil
}
