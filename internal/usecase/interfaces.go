package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByAgencyAndNumber(ctx context.Context, agency, number string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// GetByIDsForUpdate locks the rows in ascending id order.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	// Delete removes the account together with its entries and investments.
	Delete(ctx context.Context, tx Transaction, id string) error
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// ListByAccount returns entries newest first.
	ListByAccount(ctx context.Context, accountID string, window domain.TimeWindow) ([]*domain.Entry, error)
}

// InvestmentRepository defines data access for investment records.
type InvestmentRepository interface {
	Create(ctx context.Context, tx Transaction, investment *domain.Investment) error
	// ListByAccount returns investments newest first.
	ListByAccount(ctx context.Context, accountID string, window domain.TimeWindow) ([]*domain.Investment, error)
}

// UserRepository defines data access for clients and managers.
type UserRepository interface {
	Create(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByAccountID(ctx context.Context, accountID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, tx Transaction, id string) error
	Search(ctx context.Context, query string, limit, offset int) ([]*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// AccountNumberGenerator issues new account numbers.
type AccountNumberGenerator interface {
	Generate(salary bool) string
}

// Clock supplies the current time in the bank's time zone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// MetricsRecorder observes completed core operations.
type MetricsRecorder interface {
	ObserveOperation(operation string, amount decimal.Decimal, duration time.Duration, err error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}
