// Package redisvault stores session identities in Redis for production use.
package redisvault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/placementhub/portal-api/internal/ports"
)

// DefaultTTL bounds how long a persisted identity survives without a new
// login. Matches the portal's "remember me" window.
const DefaultTTL = 30 * 24 * time.Hour

// Vault is a Redis-backed identity vault. One Vault serves all clients;
// ForClient scopes it to a single client's slot.
type Vault struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Option configures a Vault.
type Option func(*Vault)

// WithPrefix overrides the default "identity:" key prefix.
func WithPrefix(prefix string) Option {
	return func(v *Vault) { v.prefix = prefix }
}

// WithTTL overrides the default identity TTL.
func WithTTL(ttl time.Duration) Option {
	return func(v *Vault) { v.ttl = ttl }
}

// New creates a Redis-backed vault.
func New(client redis.UniversalClient, opts ...Option) *Vault {
	v := &Vault{
		client: client,
		prefix: "identity:",
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ForClient returns the vault slot for one client.
func (v *Vault) ForClient(clientID string) *Slot {
	return &Slot{vault: v, key: v.prefix + clientID}
}

// Slot is a single client's identity slot. Implements ports.IdentityVault.
type Slot struct {
	vault *Vault
	key   string
}

var _ ports.IdentityVault = (*Slot)(nil)

func (s *Slot) ReadIdentity(ctx context.Context) ([]byte, error) {
	data, err := s.vault.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrIdentityAbsent
		}
		return nil, fmt.Errorf("redis get identity: %w", err)
	}
	return data, nil
}

func (s *Slot) WriteIdentity(ctx context.Context, payload []byte) error {
	if len(payload) == 0 {
		return errors.New("identity payload cannot be empty")
	}
	if err := s.vault.client.Set(ctx, s.key, payload, s.vault.ttl).Err(); err != nil {
		return fmt.Errorf("redis set identity: %w", err)
	}
	return nil
}

func (s *Slot) ClearIdentity(ctx context.Context) error {
	if err := s.vault.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del identity: %w", err)
	}
	return nil
}
