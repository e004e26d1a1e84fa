package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// errOrphanRecord mirrors the foreign key from entries and investments to accounts.
var errOrphanRecord = errors.New("memory: record references a missing account")

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create stages an entry.
func (r *EntryRepository) Create(_ context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	e := *entry

	return tx.(*Tx).stage(mutation{
		check: func(s *Store) error {
			if _, ok := s.accounts[e.AccountID]; !ok {
				return errOrphanRecord
			}
			return nil
		},
		apply: func(s *Store) {
			s.entries[e.AccountID] = append(s.entries[e.AccountID], &e)
		},
	})
}

// ListByAccount returns the account's entries inside window, newest first.
func (r *EntryRepository) ListByAccount(_ context.Context, accountID string, window domain.TimeWindow) ([]*domain.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]*domain.Entry, 0)
	for _, e := range r.store.entries[accountID] {
		if !window.Contains(e.CreatedAt) {
			continue
		}
		c := *e
		entries = append(entries, &c)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})

	return entries, nil
}
