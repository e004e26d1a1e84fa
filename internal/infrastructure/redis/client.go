package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient creates a new Redis client, retrying the first ping with
// exponential backoff until connectTimeout elapses. A zero connectTimeout
// means a single attempt.
func NewClient(ctx context.Context, redisURL string, connectTimeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if connectTimeout > 0 {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 100 * time.Millisecond
		b.MaxElapsedTime = connectTimeout
		policy = b
	}

	ping := func() error {
		err := client.Ping(ctx).Err()
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("redis not reachable yet")
		}
		return err
	}

	if err := backoff.Retry(ping, backoff.WithContext(policy, ctx)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
