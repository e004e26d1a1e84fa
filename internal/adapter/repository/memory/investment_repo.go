package memory

import (
	"context"
	"sort"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// InvestmentRepository implements usecase.InvestmentRepository.
type InvestmentRepository struct {
	store *Store
}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(store *Store) *InvestmentRepository {
	return &InvestmentRepository{store: store}
}

// Create stages an investment record.
func (r *InvestmentRepository) Create(_ context.Context, tx usecase.Transaction, investment *domain.Investment) error {
	inv := *investment

	return tx.(*Tx).stage(mutation{
		check: func(s *Store) error {
			if _, ok := s.accounts[inv.AccountID]; !ok {
				return errOrphanRecord
			}
			return nil
		},
		apply: func(s *Store) {
			s.investments[inv.AccountID] = append(s.investments[inv.AccountID], &inv)
		},
	})
}

// ListByAccount returns the account's investments inside window, newest first.
func (r *InvestmentRepository) ListByAccount(_ context.Context, accountID string, window domain.TimeWindow) ([]*domain.Investment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	investments := make([]*domain.Investment, 0)
	for _, inv := range r.store.investments[accountID] {
		if !window.Contains(inv.CreatedAt) {
			continue
		}
		c := *inv
		investments = append(investments, &c)
	}

	sort.SliceStable(investments, func(i, j int) bool {
		if !investments[i].CreatedAt.Equal(investments[j].CreatedAt) {
			return investments[i].CreatedAt.After(investments[j].CreatedAt)
		}
		return investments[i].ID > investments[j].ID
	})

	return investments, nil
}
