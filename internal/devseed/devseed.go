// Package devseed populates a development database with demo accounts and
// sample documents so the portal is usable right after startup. Seeding is
// idempotent: records that already exist are left alone.
package devseed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/placementhub/portal-api/internal/adapters/pgident"
	"github.com/placementhub/portal-api/internal/data"
	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	apperrors "github.com/placementhub/portal-api/internal/errors"
	"github.com/placementhub/portal-api/internal/ports"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB          *sql.DB
	backend     *pgident.Backend
	collections *data.CollectionRepo
}

// NewServices constructs the services used for seeding from the provided DB.
func NewServices(db *sql.DB, logger *slog.Logger) Services {
	return Services{
		DB: db,
		backend: pgident.NewBackend(db, pgident.BackendOptions{
			// Minimum cost; these are throwaway dev credentials.
			BcryptCost: 4,
			Logger:     logger,
		}),
		collections: data.NewCollectionRepo(db),
	}
}

// Run executes the development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	failures += seedAccounts(ctx, svcs.backend, logger)
	failures += seedDocuments(ctx, svcs, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

type demoAccount struct {
	Email    string
	Password string
	FullName string
	Role     domainauth.Role
}

func demoAccounts() []demoAccount {
	return []demoAccount{
		{Email: "student@campus.edu", Password: "student-demo", FullName: "Ravi Kumar", Role: domainauth.RoleStudent},
		{Email: "placement@campus.edu", Password: "placement-demo", FullName: "Meera Pillai", Role: domainauth.RolePlacement},
		{Email: "alumni@campus.edu", Password: "alumni-demo", FullName: "Asha Menon", Role: domainauth.RoleAlumni},
	}
}

func seedAccounts(ctx context.Context, backend *pgident.Backend, logger *slog.Logger) int {
	failures := 0
	for _, acct := range demoAccounts() {
		err := backend.CreateAccount(ctx, acct.Email, acct.Password, ports.Profile{
			FullName: acct.FullName,
			Role:     acct.Role,
		})
		switch {
		case err == nil:
			if logger != nil {
				logger.InfoContext(ctx, "seeded demo account", "email", acct.Email, "role", acct.Role)
			}
		case apperrors.IsConflict(err):
			if logger != nil {
				logger.DebugContext(ctx, "demo account already exists", "email", acct.Email)
			}
		default:
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed demo account", "email", acct.Email, "error", err)
			}
			failures++
		}
	}
	return failures
}

func seedDocuments(ctx context.Context, svcs Services, logger *slog.Logger) int {
	seeds := map[string][]string{
		"postings": {
			`{"title":"SDE Intern","company":"Acme Systems","ctc":12,"active":true}`,
			`{"title":"Data Analyst","company":"Northwind","ctc":9,"active":true}`,
		},
		"events": {
			`{"title":"Resume Workshop","venue":"Auditorium B","month":"September"}`,
		},
	}

	failures := 0
	for collection, bodies := range seeds {
		count, err := countDocuments(ctx, svcs.DB, collection)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to inspect collection", "collection", collection, "error", err)
			}
			failures++
			continue
		}
		if count > 0 {
			continue
		}
		for _, body := range bodies {
			if _, createErr := svcs.collections.Create(ctx, collection, nil, json.RawMessage(body)); createErr != nil {
				if logger != nil {
					logger.ErrorContext(ctx, "failed to seed document", "collection", collection, "error", createErr)
				}
				failures++
			}
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded demo documents", "collection", collection, "count", len(bodies))
		}
	}
	return failures
}

func countDocuments(ctx context.Context, db *sql.DB, collection string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT count(*) FROM documents WHERE collection = $1", collection).Scan(&count)
	return count, err
}
