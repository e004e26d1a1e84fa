package usecase

import (
	"context"

	"github.com/iho/gobank/internal/domain"
)

// StatementUseCase serves the read paths over ledger entries and investments.
type StatementUseCase struct {
	entryRepo      EntryRepository
	investmentRepo InvestmentRepository
	clock          Clock
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(entryRepo EntryRepository, investmentRepo InvestmentRepository, clock Clock) *StatementUseCase {
	return &StatementUseCase{
		entryRepo:      entryRepo,
		investmentRepo: investmentRepo,
		clock:          clock,
	}
}

// StatementInput selects an account and an optional range of days.
type StatementInput struct {
	AccountID string
	Range     domain.DateRange
}

// ListEntries returns the account's entries newest first. Day boundaries are
// taken in the bank's time zone.
func (uc *StatementUseCase) ListEntries(ctx context.Context, input StatementInput) ([]*domain.Entry, error) {
	window := input.Range.Window(uc.clock.Location())

	entries, err := uc.entryRepo.ListByAccount(ctx, input.AccountID, window)
	if err != nil {
		return nil, domain.NewInfraError("list entries", err)
	}

	return entries, nil
}

// ListInvestments returns the account's investments newest first. A range
// whose start is after its end is rejected.
func (uc *StatementUseCase) ListInvestments(ctx context.Context, input StatementInput) ([]*domain.Investment, error) {
	if err := input.Range.Validate(); err != nil {
		return nil, err
	}

	window := input.Range.Window(uc.clock.Location())

	investments, err := uc.investmentRepo.ListByAccount(ctx, input.AccountID, window)
	if err != nil {
		return nil, domain.NewInfraError("list investments", err)
	}

	return investments, nil
}
