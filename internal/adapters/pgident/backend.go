// Package pgident implements the identity backend on top of PostgreSQL
// with bcrypt password hashing.
package pgident

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/placementhub/portal-api/internal/data/pgxutil"
	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	apperrors "github.com/placementhub/portal-api/internal/errors"
	"github.com/placementhub/portal-api/internal/ports"
)

// Backend verifies credentials and creates accounts against the users and
// profiles tables. Implements ports.IdentityBackend.
type Backend struct {
	db     *sql.DB
	cost   int
	logger *slog.Logger
}

var _ ports.IdentityBackend = (*Backend)(nil)

// BackendOptions groups parameters for NewBackend.
type BackendOptions struct {
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Logger     *slog.Logger
}

// NewBackend creates a PostgreSQL identity backend.
func NewBackend(db *sql.DB, opts BackendOptions) *Backend {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{db: db, cost: cost, logger: logger}
}

// credentialRow is the join of an account and its profile.
type credentialRow struct {
	ID           string  `db:"id"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	FullName     string  `db:"full_name"`
	Role         string  `db:"role"`
	AvatarURL    *string `db:"avatar_url"`
}

const credentialQuery = `
	SELECT u.id, u.email, u.password_hash, p.full_name, p.role, p.avatar_url
	FROM users u
	JOIN profiles p ON p.user_id = u.id
	WHERE lower(u.email) = lower($1)`

// VerifyCredentials checks the password against the stored bcrypt hash.
// Unknown email and wrong password are indistinguishable to the caller.
func (b *Backend) VerifyCredentials(
	ctx context.Context,
	email, password string,
) (domainauth.Identity, error) {
	var row credentialRow
	err := pgxutil.WithPgxConn(ctx, b.db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, credentialQuery, strings.TrimSpace(email))
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[credentialRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.Identity{}, apperrors.Auth("invalid credentials")
		}
		return domainauth.Identity{}, apperrors.FromDB(err, "account")
	}

	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return domainauth.Identity{}, apperrors.Auth("invalid credentials")
	}

	identity := domainauth.Identity{
		UserID:   row.ID,
		FullName: row.FullName,
		Email:    row.Email,
		Role:     domainauth.Role(row.Role),
	}
	if row.AvatarURL != nil {
		identity.AvatarURL = *row.AvatarURL
	}
	return identity, nil
}

// CreateAccount inserts the account and its profile in one transaction.
// A duplicate email surfaces as a conflict error.
func (b *Backend) CreateAccount(
	ctx context.Context,
	email, password string,
	profile ports.Profile,
) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	err = pgxutil.WithPgxTx(ctx, b.db, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		var userID string
		insertErr := tx.QueryRow(ctx, `
			INSERT INTO users (email, password_hash)
			VALUES (lower($1), $2)
			RETURNING id`,
			strings.TrimSpace(email), string(hash),
		).Scan(&userID)
		if insertErr != nil {
			return insertErr
		}

		var avatar *string
		if profile.AvatarURL != "" {
			avatar = &profile.AvatarURL
		}
		_, insertErr = tx.Exec(ctx, `
			INSERT INTO profiles (user_id, full_name, role, avatar_url)
			VALUES ($1, $2, $3, $4)`,
			userID, profile.FullName, string(profile.Role), avatar,
		)
		return insertErr
	}})
	if err != nil {
		return apperrors.FromDB(err, "account")
	}
	return nil
}

// SignOut is a no-op for the password backend. There is no remote session
// to revoke; the caller clears its own state.
func (b *Backend) SignOut(ctx context.Context) {
	b.logger.DebugContext(ctx, "password backend sign-out")
}
