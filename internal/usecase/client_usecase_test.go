package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

func TestClientUseCase_RegisterClient(t *testing.T) {
	b := newBank(t)

	user, account, err := b.clients.RegisterClient(context.Background(), usecase.RegisterClientInput{
		Name:   "  Ana Souza ",
		Email:  " Ana@Bank.Test ",
		Income: dec("3500"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", user.Name)
	assert.Equal(t, "ana@bank.test", user.Email)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.Equal(t, account.ID, user.AccountID())
	assert.Equal(t, testAgency, account.Agency)
	assert.False(t, account.IsSalary())
	assert.True(t, account.Balance.IsZero())

	owner, err := b.clients.GetClientByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, owner.ID)

	found, err := b.account.GetAccountByNumber(context.Background(), testAgency, account.Number)
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)
}

func TestClientUseCase_RegisterSalaryClient(t *testing.T) {
	b := newBank(t)

	_, account, err := b.clients.RegisterClient(context.Background(), usecase.RegisterClientInput{
		Name: "Bruno", Email: "bruno@bank.test", Income: dec("1500"), Salary: true,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(account.Number, domain.SalaryAccountPrefix))
	assert.True(t, account.IsSalary())
}

func TestClientUseCase_RegisterClientValidation(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.RegisterClientInput
		want  error
	}{
		{name: "blank name", input: usecase.RegisterClientInput{Name: "  ", Email: "a@bank.test"}, want: domain.ErrInvalidClientName},
		{name: "bad email", input: usecase.RegisterClientInput{Name: "Ana", Email: "ana"}, want: domain.ErrInvalidEmail},
		{name: "negative income", input: usecase.RegisterClientInput{Name: "Ana", Email: "a@bank.test", Income: dec("-1")}, want: domain.ErrInvalidIncome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBank(t)
			_, _, err := b.clients.RegisterClient(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
		})
	}
}

func TestClientUseCase_DuplicateEmailLeavesNoAccount(t *testing.T) {
	b := newBank(t)
	_, first, err := b.clients.RegisterClient(context.Background(), usecase.RegisterClientInput{
		Name: "Ana", Email: "ana@bank.test", Income: dec("3000"),
	})
	require.NoError(t, err)

	_, _, err = b.clients.RegisterClient(context.Background(), usecase.RegisterClientInput{
		Name: "Other Ana", Email: "ANA@bank.test", Income: dec("3000"),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// The second account number was issued but never stored.
	next := "1" + strings.Repeat("0", 6) + "2"
	_, err = b.account.GetAccountByNumber(context.Background(), testAgency, next)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = b.account.GetAccount(context.Background(), first.ID)
	assert.NoError(t, err)
}

func TestClientUseCase_ManagerOperations(t *testing.T) {
	b := newBank(t)
	ctx := context.Background()

	manager, err := b.clients.RegisterManager(ctx, "Boss", "boss@bank.test")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, manager.Role)
	assert.Nil(t, manager.Client)

	ana, anaAcc := b.openAccount(t, "ana", "3000", "100", false)
	bruno, _ := b.openAccount(t, "bruno", "1000", "0", false)

	t.Run("client cannot manage", func(t *testing.T) {
		name := "Hacker"
		_, err := b.clients.UpdateClient(ctx, ana, usecase.UpdateClientInput{ID: bruno.ID, Name: &name})
		assert.ErrorIs(t, err, domain.ErrInsufficientRole)

		assert.ErrorIs(t, b.clients.DeleteClient(ctx, ana, bruno.ID), domain.ErrInsufficientRole)

		_, err = b.clients.SearchClients(ctx, ana, usecase.SearchClientsInput{})
		assert.ErrorIs(t, err, domain.ErrInsufficientRole)

		_, err = b.clients.SearchClients(ctx, nil, usecase.SearchClientsInput{})
		assert.ErrorIs(t, err, domain.ErrInsufficientRole)
	})

	t.Run("update", func(t *testing.T) {
		name := "Bruno Lima"
		income := decimal.NewFromInt(4200)
		updated, err := b.clients.UpdateClient(ctx, manager, usecase.UpdateClientInput{ID: bruno.ID, Name: &name, Income: &income})
		require.NoError(t, err)
		assert.Equal(t, "Bruno Lima", updated.Name)
		assert.True(t, updated.Income().Equal(income))
		assert.Equal(t, bruno.Email, updated.Email)

		stored, err := b.clients.GetUser(ctx, bruno.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bruno Lima", stored.Name)
	})

	t.Run("update rejects bad email", func(t *testing.T) {
		email := "nope"
		_, err := b.clients.UpdateClient(ctx, manager, usecase.UpdateClientInput{ID: bruno.ID, Email: &email})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("managers are not clients", func(t *testing.T) {
		name := "Renamed"
		_, err := b.clients.UpdateClient(ctx, manager, usecase.UpdateClientInput{ID: manager.ID, Name: &name})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("search", func(t *testing.T) {
		results, err := b.clients.SearchClients(ctx, manager, usecase.SearchClientsInput{Query: "bruno"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, bruno.ID, results[0].ID)

		all, err := b.clients.SearchClients(ctx, manager, usecase.SearchClientsInput{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, b.clients.DeleteClient(ctx, manager, ana.ID))

		_, err := b.clients.GetUser(ctx, ana.ID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = b.account.GetAccount(ctx, anaAcc.ID)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)

		assert.Empty(t, b.entriesOf(t, anaAcc.ID))

		assert.ErrorIs(t, b.clients.DeleteClient(ctx, manager, ana.ID), domain.ErrUserNotFound)
	})
}
