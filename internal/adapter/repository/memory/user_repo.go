package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create stages a new user.
func (r *UserRepository) Create(_ context.Context, tx usecase.Transaction, user *domain.User) error {
	u := copyUser(user)

	return tx.(*Tx).stage(mutation{
		check: func(s *Store) error {
			if emailTaken(s, u.Email, u.ID) {
				return domain.ErrDuplicateEmail
			}
			return nil
		},
		apply: func(s *Store) {
			s.users[u.ID] = u
			if accountID := u.AccountID(); accountID != "" {
				s.userByAccount[accountID] = u.ID
			}
		},
	})
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	return copyUser(u), nil
}

// GetByAccountID retrieves the client owning accountID.
func (r *UserRepository) GetByAccountID(_ context.Context, accountID string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.userByAccount[accountID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	return copyUser(r.store.users[id]), nil
}

// Update replaces a user's editable fields.
func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}

	if emailTaken(r.store, user.Email, user.ID) {
		return domain.ErrDuplicateEmail
	}

	u := copyUser(user)
	u.CreatedAt = current.CreatedAt
	r.store.users[u.ID] = u

	return nil
}

// Delete stages removal of a user.
func (r *UserRepository) Delete(_ context.Context, tx usecase.Transaction, id string) error {
	return tx.(*Tx).stage(mutation{
		check: func(s *Store) error {
			if _, ok := s.users[id]; !ok {
				return domain.ErrUserNotFound
			}
			return nil
		},
		apply: func(s *Store) {
			if u, ok := s.users[id]; ok && u.AccountID() != "" {
				delete(s.userByAccount, u.AccountID())
			}
			delete(s.users, id)
		},
	})
}

// Search matches clients whose name or email contains query, ignoring case.
// Results are ordered by name.
func (r *UserRepository) Search(_ context.Context, query string, limit, offset int) ([]*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	q := strings.ToLower(query)

	matches := make([]*domain.User, 0)
	for _, u := range r.store.users {
		if !u.IsClient() {
			continue
		}
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			matches = append(matches, copyUser(u))
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Name != matches[j].Name {
			return matches[i].Name < matches[j].Name
		}
		return matches[i].ID < matches[j].ID
	})

	if offset >= len(matches) {
		return []*domain.User{}, nil
	}

	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}

	return matches[offset:end], nil
}

func emailTaken(s *Store, email, exceptID string) bool {
	for id, u := range s.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
