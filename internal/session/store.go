package session

// Package session owns the single source of truth for "who is logged in".
// The Store is the only holder of the current Session; the auth service
// facade is its sole writer, everything else takes read-only snapshots.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	apperrors "github.com/placementhub/portal-api/internal/errors"
	"github.com/placementhub/portal-api/internal/ports"
)

// Store holds the current session and mirrors it into a durable vault so
// a reload does not force re-authentication.
//
// Mutations are serialized by a mutex; the generation counter increases on
// every Set so late-arriving async results can be recognized as stale.
type Store struct {
	mu         sync.Mutex
	vault      ports.IdentityVault
	logger     *slog.Logger
	sess       domainauth.Session
	generation uint64
	restored   bool
}

// NewStore creates a Store in the loading state. Restore must run before
// guard decisions that depend on IsAuthenticated are considered final.
func NewStore(vault ports.IdentityVault, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		vault:  vault,
		logger: logger,
		sess:   domainauth.Session{IsLoading: true},
	}
}

// Get returns the current session snapshot. Never fails.
func (s *Store) Get() domainauth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Generation returns the current session generation. Async callers capture
// it before suspending and hand it back to SetIfGeneration on completion.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Set replaces the current identity, recomputes IsAuthenticated, bumps the
// generation, and mirrors the change into the vault. A nil identity clears
// both the session and the vault slot.
func (s *Store) Set(ctx context.Context, identity *domainauth.Identity) domainauth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(ctx, identity)
	return s.snapshotLocked()
}

// SetIfGeneration applies an identity only when gen still matches the
// current generation. A mismatch means a newer Set (login or logout)
// intervened while the caller was suspended; the result is discarded and
// a StaleResponse error returned so the caller can drop it silently.
func (s *Store) SetIfGeneration(
	ctx context.Context,
	identity *domainauth.Identity,
	gen uint64,
) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return s.snapshotLocked(), apperrors.StaleResponse("session generation advanced; result discarded")
	}
	s.applyLocked(ctx, identity)
	return s.snapshotLocked(), nil
}

// Restore resolves the persisted identity once at startup. A payload that
// fails to parse or validate is treated as corruption: the vault slot is
// cleared, the failure logged, and the session left empty. IsLoading flips
// to false regardless of outcome. Subsequent calls are no-ops.
func (s *Store) Restore(ctx context.Context) domainauth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restored {
		return s.snapshotLocked()
	}
	s.restored = true
	s.sess.IsLoading = false

	payload, err := s.vault.ReadIdentity(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrIdentityAbsent) {
			s.logger.WarnContext(ctx, "session restore: vault read failed", "error", err)
		}
		return s.snapshotLocked()
	}

	identity, err := decodeIdentity(payload)
	if err != nil {
		s.logger.WarnContext(ctx, "session restore: clearing corrupt identity payload",
			"error", apperrors.Wrap(err, apperrors.ErrCodePersistenceCorruption, "stored identity rejected"))
		if clearErr := s.vault.ClearIdentity(ctx); clearErr != nil {
			s.logger.WarnContext(ctx, "session restore: vault clear failed", "error", clearErr)
		}
		return s.snapshotLocked()
	}

	s.sess.Identity = identity
	s.sess.IsAuthenticated = true
	return s.snapshotLocked()
}

// applyLocked mutates the session and mirrors it into the vault. Vault
// failures are logged, not returned: the in-memory session is the source
// of truth for the current process and must not be blocked by storage.
func (s *Store) applyLocked(ctx context.Context, identity *domainauth.Identity) {
	s.generation++
	s.sess.IsLoading = false

	if identity == nil {
		s.sess.Identity = nil
		s.sess.IsAuthenticated = false
		if err := s.vault.ClearIdentity(ctx); err != nil {
			s.logger.WarnContext(ctx, "session set: vault clear failed", "error", err)
		}
		return
	}

	copied := *identity
	s.sess.Identity = &copied
	s.sess.IsAuthenticated = true

	payload, err := json.Marshal(copied)
	if err != nil {
		s.logger.WarnContext(ctx, "session set: encode identity failed", "error", err)
		return
	}
	if err := s.vault.WriteIdentity(ctx, payload); err != nil {
		s.logger.WarnContext(ctx, "session set: vault write failed", "error", err)
	}
}

// snapshotLocked copies the session so callers never alias the store's
// internal identity record.
func (s *Store) snapshotLocked() domainauth.Session {
	snap := s.sess
	if s.sess.Identity != nil {
		copied := *s.sess.Identity
		snap.Identity = &copied
	}
	return snap
}

func decodeIdentity(payload []byte) (*domainauth.Identity, error) {
	var identity domainauth.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, err
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	return &identity, nil
}
