package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/gobank/internal/usecase"
)

// ErrTxClosed is returned when a finished transaction is committed again.
var ErrTxClosed = errors.New("memory: transaction already closed")

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{store: m.store}, nil
}

// mutation is a staged write. check runs against committed state before any
// apply, so a failing check leaves the store untouched.
type mutation struct {
	check func(s *Store) error
	apply func(s *Store)
}

// Tx stages writes and holds row locks until Commit or Rollback.
type Tx struct {
	mu        sync.Mutex
	store     *Store
	held      []string
	mutations []mutation
	closed    bool
}

// Commit applies the staged writes atomically and releases the locks.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxClosed
	}
	defer t.finish()

	if err := ctx.Err(); err != nil {
		return err
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, m := range t.mutations {
		if m.check == nil {
			continue
		}
		if err := m.check(t.store); err != nil {
			return err
		}
	}

	for _, m := range t.mutations {
		m.apply(t.store)
	}

	return nil
}

// Rollback discards the staged writes. Calling it after Commit is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.finish()

	return nil
}

func (t *Tx) finish() {
	t.closed = true
	t.mutations = nil

	for i := len(t.held) - 1; i >= 0; i-- {
		t.store.unlock(t.held[i])
	}
	t.held = nil
}

// lockAccount takes the account's row lock once per transaction.
func (t *Tx) lockAccount(ctx context.Context, id string) error {
	t.mu.Lock()
	for _, held := range t.held {
		if held == id {
			t.mu.Unlock()
			return nil
		}
	}
	t.mu.Unlock()

	if err := t.store.lock(ctx, id); err != nil {
		return err
	}

	t.mu.Lock()
	t.held = append(t.held, id)
	t.mu.Unlock()

	return nil
}

func (t *Tx) stage(m mutation) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxClosed
	}

	t.mutations = append(t.mutations, m)

	return nil
}
