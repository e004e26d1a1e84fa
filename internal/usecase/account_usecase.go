package usecase

import (
	"context"
	"strings"

	"github.com/iho/gobank/internal/domain"
)

// AccountUseCase resolves accounts for the outer layers.
type AccountUseCase struct {
	accountRepo AccountRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
	}
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInfraError("get account", err)
	}
	return account, nil
}

// GetAccountByNumber retrieves an account by agency and number.
func (uc *AccountUseCase) GetAccountByNumber(ctx context.Context, agency, number string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByAgencyAndNumber(ctx, strings.TrimSpace(agency), strings.TrimSpace(number))
	if err != nil {
		return nil, domain.NewInfraError("get account by number", err)
	}
	return account, nil
}
