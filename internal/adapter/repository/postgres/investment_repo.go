package postgres

import (
	"context"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// InvestmentRepository implements usecase.InvestmentRepository.
type InvestmentRepository struct {
	queries *generated.Queries
}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(db generated.DBTX) *InvestmentRepository {
	return &InvestmentRepository{
		queries: generated.New(db),
	}
}

// Create inserts an investment record.
func (r *InvestmentRepository) Create(ctx context.Context, tx usecase.Transaction, investment *domain.Investment) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.CreateInvestment(ctx, generated.CreateInvestmentParams{
		ID:           investment.ID,
		AccountID:    investment.AccountID,
		Type:         string(investment.Type),
		Amount:       decimalToNumeric(investment.Amount),
		BalanceAfter: decimalToNumeric(investment.BalanceAfter),
		CreatedAt:    timeToPgTimestamptz(investment.CreatedAt),
	})
}

// ListByAccount returns the account's investments inside window, newest first.
func (r *InvestmentRepository) ListByAccount(ctx context.Context, accountID string, window domain.TimeWindow) ([]*domain.Investment, error) {
	rows, err := r.queries.ListInvestmentsByAccount(ctx, generated.ListInvestmentsByAccountParams{
		AccountID: accountID,
		FromTime:  optionalTimestamptz(window.From),
		UntilTime: optionalTimestamptz(window.Until),
	})
	if err != nil {
		return nil, err
	}

	investments := make([]*domain.Investment, 0, len(rows))
	for _, row := range rows {
		investments = append(investments, &domain.Investment{
			ID:           row.ID,
			AccountID:    row.AccountID,
			Type:         domain.InvestmentType(row.Type),
			Amount:       numericToDecimal(row.Amount),
			BalanceAfter: numericToDecimal(row.BalanceAfter),
			CreatedAt:    row.CreatedAt.Time,
		})
	}

	return investments, nil
}
