package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestStatementUseCase_ListEntriesByDay(t *testing.T) {
	b := newBank(t)
	_, acc := b.openAccount(t, "ana", "3000", "0", false)
	ctx := context.Background()

	for _, at := range []time.Time{
		time.Date(2024, 5, 9, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 10, 23, 59, 59, 999999999, time.UTC),
		time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC),
	} {
		b.clock.Set(at)
		_, err := b.ledger.Deposit(ctx, usecase.DepositInput{AccountID: acc.ID, Amount: dec("10")})
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		rng   domain.DateRange
		count int
	}{
		{name: "unbounded", rng: domain.DateRange{}, count: 4},
		{name: "single day includes its last instant", rng: domain.DateRange{Start: day(2024, 5, 10), End: day(2024, 5, 10)}, count: 2},
		{name: "start only", rng: domain.DateRange{Start: day(2024, 5, 10)}, count: 3},
		{name: "end only", rng: domain.DateRange{End: day(2024, 5, 9)}, count: 1},
		{name: "reversed range yields nothing", rng: domain.DateRange{Start: day(2024, 5, 11), End: day(2024, 5, 9)}, count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := b.statement.ListEntries(ctx, usecase.StatementInput{AccountID: acc.ID, Range: tt.rng})
			require.NoError(t, err)
			assert.Len(t, entries, tt.count)

			for i := 1; i < len(entries); i++ {
				assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt), "entries must be newest first")
			}
		})
	}
}

func TestStatementUseCase_DayBoundariesFollowBankZone(t *testing.T) {
	zone := time.FixedZone("BRT", -3*60*60)

	b := newBank(t)
	_, acc := b.openAccount(t, "ana", "3000", "0", false)
	ctx := context.Background()

	// 01:00 UTC on the 11th is still the 10th in the bank's zone.
	b.clock.Set(time.Date(2024, 5, 11, 1, 0, 0, 0, time.UTC).In(zone))
	_, err := b.ledger.Deposit(ctx, usecase.DepositInput{AccountID: acc.ID, Amount: dec("10")})
	require.NoError(t, err)

	entries, err := b.statement.ListEntries(ctx, usecase.StatementInput{
		AccountID: acc.ID,
		Range:     domain.DateRange{Start: day(2024, 5, 10), End: day(2024, 5, 10)},
	})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStatementUseCase_ListInvestmentsRejectsReversedRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The repository must not be reached.
	uc := usecase.NewStatementUseCase(mocks.NewMockEntryRepository(ctrl), mocks.NewMockInvestmentRepository(ctrl), newFakeClock(time.Now()))

	_, err := uc.ListInvestments(context.Background(), usecase.StatementInput{
		AccountID: "acc-1",
		Range:     domain.DateRange{Start: day(2024, 5, 11), End: day(2024, 5, 10)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestStatementUseCase_ListInvestmentsSameDayIsValid(t *testing.T) {
	b := newBank(t)
	_, acc := b.openAccount(t, "ana", "3000", "500", false)

	_, err := b.ledger.Invest(context.Background(), usecase.InvestInput{
		AccountID: acc.ID, Type: "SELIC", Amount: dec("100"), CurrentBalance: dec("500"),
	})
	require.NoError(t, err)

	investments, err := b.statement.ListInvestments(context.Background(), usecase.StatementInput{
		AccountID: acc.ID,
		Range:     domain.DateRange{Start: day(2024, 5, 10), End: day(2024, 5, 10)},
	})
	require.NoError(t, err)
	assert.Len(t, investments, 1)
}

func TestStatementUseCase_StorageFailureIsInfrastructure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	entryRepo := mocks.NewMockEntryRepository(ctrl)
	entryRepo.EXPECT().ListByAccount(gomock.Any(), "acc-1", domain.TimeWindow{}).Return(nil, errors.New("timeout"))

	uc := usecase.NewStatementUseCase(entryRepo, mocks.NewMockInvestmentRepository(ctrl), newFakeClock(time.Now()))

	_, err := uc.ListEntries(context.Background(), usecase.StatementInput{AccountID: "acc-1"})
	assert.ErrorIs(t, err, domain.ErrInfrastructure)
}
