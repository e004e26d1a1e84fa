package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// withTransaction runs fn as one unit of work. Any error from fn, or from
// commit, leaves nothing behind: the deferred rollback undoes every write.
// Errors without a domain kind come back as *domain.InfraError.
func withTransaction(ctx context.Context, txManager TransactionManager, op string, fn func(ctx context.Context, tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := txManager.Begin(ctx)
	if err != nil {
		return domain.NewInfraError(op+": begin", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return domain.NewInfraError(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.NewInfraError(op+": commit", err)
	}

	return nil
}

// observe records metrics for a finished operation and logs its outcome.
func observe(ctx context.Context, metrics MetricsRecorder, op string, amount decimal.Decimal, start time.Time, err error) {
	duration := time.Since(start)
	metrics.ObserveOperation(op, amount, duration, err)

	logger := zerolog.Ctx(ctx)
	if err == nil {
		logger.Info().
			Str("operation", op).
			Str("amount", amount.String()).
			Dur("duration", duration).
			Msg("operation completed")
		return
	}

	if domain.IsDomainError(err) {
		logger.Debug().
			Str("operation", op).
			Str("amount", amount.String()).
			Str("kind", string(domain.KindOf(err))).
			Msg("operation rejected")
		return
	}

	logger.Error().
		Err(err).
		Str("operation", op).
		Str("amount", amount.String()).
		Msg("operation failed")
}

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, decimal.Decimal, time.Duration, error) {}

func metricsOrNoop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
