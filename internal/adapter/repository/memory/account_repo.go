package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stages a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	acc := copyAccount(account)
	key := numberKey(acc.Agency, acc.Number)

	return tx.(*Tx).stage(mutation{
		check: func(s *Store) error {
			if _, taken := s.accountNumbers[key]; taken {
				return domain.ErrDuplicateAccount
			}
			if _, taken := s.accounts[acc.ID]; taken {
				return domain.ErrDuplicateAccount
			}
			return nil
		},
		apply: func(s *Store) {
			s.accounts[acc.ID] = acc
			s.accountNumbers[key] = acc.ID
		},
	})
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	acc, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return copyAccount(acc), nil
}

// GetByAgencyAndNumber retrieves an account by its public coordinates.
func (r *AccountRepository) GetByAgencyAndNumber(_ context.Context, agency, number string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.accountNumbers[numberKey(agency, number)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return copyAccount(r.store.accounts[id]), nil
}

// GetByIDForUpdate locks the account for the rest of the transaction.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if err := tx.(*Tx).lockAccount(ctx, id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// GetByIDsForUpdate locks the accounts in ascending id order. Missing ids are
// skipped.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	accounts := make([]*domain.Account, 0, len(sorted))
	for _, id := range sorted {
		acc, err := r.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			if err == domain.ErrAccountNotFound {
				continue
			}
			return nil, err
		}
		accounts = append(accounts, acc)
	}

	return accounts, nil
}

// UpdateBalance stages a new balance and bumps the version.
func (r *AccountRepository) UpdateBalance(_ context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if balance.IsNegative() {
		return ErrNegativeBalance
	}

	return tx.(*Tx).stage(mutation{
		check: func(s *Store) error {
			if _, ok := s.accounts[id]; !ok {
				return domain.ErrAccountNotFound
			}
			return nil
		},
		apply: func(s *Store) {
			acc := copyAccount(s.accounts[id])
			acc.Balance = balance
			acc.Version++
			acc.UpdatedAt = updatedAt
			s.accounts[id] = acc
		},
	})
}

// Delete stages removal of the account with its entries and investments.
func (r *AccountRepository) Delete(_ context.Context, tx usecase.Transaction, id string) error {
	return tx.(*Tx).stage(mutation{
		check: func(s *Store) error {
			if _, ok := s.accounts[id]; !ok {
				return domain.ErrAccountNotFound
			}
			return nil
		},
		apply: func(s *Store) {
			acc := s.accounts[id]
			delete(s.accountNumbers, numberKey(acc.Agency, acc.Number))
			delete(s.accounts, id)
			delete(s.entries, id)
			delete(s.investments, id)
		},
	})
}
