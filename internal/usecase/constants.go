package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from holding account row locks
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Operation names used for metrics and logs.
const (
	OperationDeposit         = "deposit"
	OperationWithdraw        = "withdraw"
	OperationInvest          = "invest"
	OperationPrepareTransfer = "prepare_transfer"
	OperationCommitTransfer  = "commit_transfer"
)

// IdempotencyPendingMarker is stored under an idempotency key while its first
// request is still running.
const IdempotencyPendingMarker = "processing"
