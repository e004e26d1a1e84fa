package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/adapter/repository/memory"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

const testAgency = "0001"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Location() *time.Location {
	return c.Now().Location()
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

type seqIDs struct {
	n atomic.Int64
}

func (g *seqIDs) Generate() string {
	return fmt.Sprintf("id-%06d", g.n.Add(1))
}

type seqNumbers struct {
	n atomic.Int64
}

func (g *seqNumbers) Generate(salary bool) string {
	prefix := "1"
	if salary {
		prefix = domain.SalaryAccountPrefix
	}
	return fmt.Sprintf("%s%07d", prefix, g.n.Add(1))
}

// bank wires every use case over one in-memory store.
type bank struct {
	store       *memory.Store
	txManager   *memory.TxManager
	accounts    *memory.AccountRepository
	entries     *memory.EntryRepository
	investments *memory.InvestmentRepository
	users       *memory.UserRepository
	clock       *fakeClock
	ids         *seqIDs

	ledger    *usecase.LedgerUseCase
	transfer  *usecase.TransferUseCase
	statement *usecase.StatementUseCase
	clients   *usecase.ClientUseCase
	account   *usecase.AccountUseCase
}

func newBank(t *testing.T) *bank {
	t.Helper()

	store := memory.NewStore()
	b := &bank{
		store:       store,
		txManager:   memory.NewTxManager(store),
		accounts:    memory.NewAccountRepository(store),
		entries:     memory.NewEntryRepository(store),
		investments: memory.NewInvestmentRepository(store),
		users:       memory.NewUserRepository(store),
		clock:       newFakeClock(time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)),
		ids:         &seqIDs{},
	}

	b.ledger = usecase.NewLedgerUseCase(b.txManager, b.accounts, b.entries, b.investments, b.ids, b.clock, nil)
	b.transfer = usecase.NewTransferUseCase(b.txManager, b.accounts, b.users, b.entries, b.ids, b.clock, nil)
	b.statement = usecase.NewStatementUseCase(b.entries, b.investments, b.clock)
	b.clients = usecase.NewClientUseCase(b.txManager, b.users, b.accounts, b.ids, &seqNumbers{}, b.clock, testAgency)
	b.account = usecase.NewAccountUseCase(b.accounts)

	return b
}

// openAccount registers a client and funds the account.
func (b *bank) openAccount(t *testing.T, name string, income, balance string, salary bool) (*domain.User, *domain.Account) {
	t.Helper()

	ctx := context.Background()
	user, account, err := b.clients.RegisterClient(ctx, usecase.RegisterClientInput{
		Name:   name,
		Email:  name + "@bank.test",
		Income: decimal.RequireFromString(income),
		Salary: salary,
	})
	require.NoError(t, err)

	if amount := decimal.RequireFromString(balance); amount.IsPositive() {
		_, err := b.ledger.Deposit(ctx, usecase.DepositInput{AccountID: account.ID, Amount: amount})
		require.NoError(t, err)
	}

	return user, b.mustAccount(t, account.ID)
}

func (b *bank) mustAccount(t *testing.T, id string) *domain.Account {
	t.Helper()

	acc, err := b.account.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return acc
}

func (b *bank) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	return b.mustAccount(t, id).Balance
}

func (b *bank) entriesOf(t *testing.T, id string) []*domain.Entry {
	t.Helper()

	entries, err := b.statement.ListEntries(context.Background(), usecase.StatementInput{AccountID: id})
	require.NoError(t, err)
	return entries
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireBalance(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, got.Equal(dec(want)), "expected balance %s, got %s", want, got)
}
