package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/placementhub/portal-api/config"
	"github.com/placementhub/portal-api/internal/devseed"
)

// Run wires the full application and blocks until the context is canceled
// or a termination signal arrives.
func Run(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := ConnectDB(DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
	}()

	deps := AuthDepsConfig{Config: &cfg, DB: db, Logger: logger}

	if cfg.Vault.Backend == config.VaultBackendRedis {
		redisClient, redisErr := ConnectRedis(DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
		if redisErr != nil {
			return fmt.Errorf("connect redis: %w", redisErr)
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
		deps.RedisClient = redisClient
	}

	if cfg.Postgres.RunMigrationsOnStart {
		if err = RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	if cfg.IsDev {
		if seedErr := devseed.Run(ctx, devseed.NewServices(db, logger), logger); seedErr != nil {
			logger.WarnContext(ctx, "dev seeding incomplete", "error", seedErr)
		}
	}

	authDeps, err := BuildAuthDeps(ctx, deps)
	if err != nil {
		return err
	}

	server := StartHTTPServer(HTTPServerConfig{
		Addr:   cfg.HTTP.Addr,
		Auth:   authDeps,
		Stores: BuildStoreFactory(deps),
		DB:     db,
		Logger: logger,
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-groupCtx.Done()
		return ShutdownHTTPServer(context.Background(), server, logger)
	})

	return group.Wait()
}
