package postgres

import (
	"context"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Create inserts a ledger entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.CreateEntry(ctx, generated.CreateEntryParams{
		ID:           entry.ID,
		AccountID:    entry.AccountID,
		TransferID:   optionalText(entry.TransferID),
		Kind:         string(entry.Kind),
		Amount:       decimalToNumeric(entry.Amount),
		BalanceAfter: decimalToNumeric(entry.BalanceAfter),
		CreatedAt:    timeToPgTimestamptz(entry.CreatedAt),
	})
}

// ListByAccount returns the account's entries inside window, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, window domain.TimeWindow) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesByAccount(ctx, generated.ListEntriesByAccountParams{
		AccountID: accountID,
		FromTime:  optionalTimestamptz(window.From),
		UntilTime: optionalTimestamptz(window.Until),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		ID:           row.ID,
		AccountID:    row.AccountID,
		TransferID:   row.TransferID.String,
		Kind:         domain.EntryKind(row.Kind),
		Amount:       numericToDecimal(row.Amount),
		BalanceAfter: numericToDecimal(row.BalanceAfter),
		CreatedAt:    row.CreatedAt.Time,
	}
}
