// Package memory keeps the bank's state in process memory. It backs tests and
// the STORAGE_DRIVER=memory mode with the same locking and rollback behavior
// as the Postgres store.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/gobank/internal/domain"
)

// ErrNegativeBalance mirrors the balance check constraint of the SQL schema.
var ErrNegativeBalance = errors.New("memory: balance must not be negative")

// Store holds committed state. Writes reach it only through Tx.Commit.
type Store struct {
	mu sync.RWMutex

	accounts       map[string]*domain.Account
	accountNumbers map[string]string
	entries        map[string][]*domain.Entry
	investments    map[string][]*domain.Investment
	users          map[string]*domain.User
	userByAccount  map[string]string

	lockMu sync.Mutex
	locks  map[string]*rowLock
}

// rowLock is a one-slot semaphore. refs counts holders and waiters; the entry
// leaves the map when it drops to zero.
type rowLock struct {
	ch   chan struct{}
	refs int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]*domain.Account),
		accountNumbers: make(map[string]string),
		entries:        make(map[string][]*domain.Entry),
		investments:    make(map[string][]*domain.Investment),
		users:          make(map[string]*domain.User),
		userByAccount:  make(map[string]string),
		locks:          make(map[string]*rowLock),
	}
}

// lock takes the row lock for an account, giving up when ctx is done.
func (s *Store) lock(ctx context.Context, id string) error {
	s.lockMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &rowLock{ch: make(chan struct{}, 1)}
		s.locks[id] = l
	}
	l.refs++
	s.lockMu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		s.release(id, l)
		return ctx.Err()
	}
}

func (s *Store) unlock(id string) {
	s.lockMu.Lock()
	l := s.locks[id]
	s.lockMu.Unlock()

	<-l.ch
	s.release(id, l)
}

func (s *Store) release(id string, l *rowLock) {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
}

func numberKey(agency, number string) string {
	return agency + "/" + number
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.Client != nil {
		profile := *u.Client
		c.Client = &profile
	}
	return &c
}
