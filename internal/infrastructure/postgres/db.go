package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PoolConfig configures the connection pool.
type PoolConfig struct {
	DatabaseURL string
	MaxConns    int
	MinConns    int
	// ConnectTimeout bounds the whole connect-and-ping retry loop. Zero
	// means a single attempt.
	ConnectTimeout time.Duration
}

// NewPool creates a new PostgreSQL connection pool, retrying the first ping
// with exponential backoff until cfg.ConnectTimeout elapses.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		config.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns >= 0 {
		config.MinConns = int32(cfg.MinConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	attempt := 0
	ping := func() error {
		attempt++
		err := pool.Ping(ctx)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Msg("database not reachable yet")
		}
		return err
	}

	if err := backoff.Retry(ping, connectBackOff(ctx, cfg.ConnectTimeout)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// connectBackOff returns the retry policy used while waiting for a
// dependency to come up.
func connectBackOff(ctx context.Context, limit time.Duration) backoff.BackOffContext {
	if limit <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = limit

	return backoff.WithContext(b, ctx)
}
