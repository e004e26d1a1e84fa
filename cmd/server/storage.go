package main

import (
	"context"
	"fmt"

	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/usecase"
)

// storage bundles the repositories of one driver.
type storage struct {
	txManager   usecase.TransactionManager
	accounts    usecase.AccountRepository
	entries     usecase.EntryRepository
	investments usecase.InvestmentRepository
	users       usecase.UserRepository
	checks      map[string]handler.Check
	close       func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return openMemory(ctx), nil
	case config.StoragePostgres:
		return openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openMemory(ctx context.Context) *storage {
	logger.FromContext(ctx).Warn().Msg("using in-memory storage, data is lost on restart")

	store := memory.NewStore()
	return &storage{
		txManager:   memory.NewTxManager(store),
		accounts:    memory.NewAccountRepository(store),
		entries:     memory.NewEntryRepository(store),
		investments: memory.NewInvestmentRepository(store),
		users:       memory.NewUserRepository(store),
		checks:      map[string]handler.Check{},
		close:       func() {},
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*storage, error) {
	log := logger.FromContext(ctx)

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(ctx, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &storage{
		txManager:   postgresRepo.NewTxManager(pool),
		accounts:    postgresRepo.NewAccountRepository(pool),
		entries:     postgresRepo.NewEntryRepository(pool),
		investments: postgresRepo.NewInvestmentRepository(pool),
		users:       postgresRepo.NewUserRepository(pool),
		checks: map[string]handler.Check{
			"postgres": pool.Ping,
		},
		close: pool.Close,
	}, nil
}
