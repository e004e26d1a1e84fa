package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// LedgerUseCase applies single-account operations: deposits, withdrawals and
// investments.
type LedgerUseCase struct {
	txManager      TransactionManager
	accountRepo    AccountRepository
	entryRepo      EntryRepository
	investmentRepo InvestmentRepository
	idGen          IDGenerator
	clock          Clock
	metrics        MetricsRecorder
}

// NewLedgerUseCase creates a new LedgerUseCase. metrics may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	investmentRepo InvestmentRepository,
	idGen IDGenerator,
	clock Clock,
	metrics MetricsRecorder,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:      txManager,
		accountRepo:    accountRepo,
		entryRepo:      entryRepo,
		investmentRepo: investmentRepo,
		idGen:          idGen,
		clock:          clock,
		metrics:        metricsOrNoop(metrics),
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountID string
	Amount    decimal.Decimal
}

// WithdrawInput represents input for a withdrawal. Account is the caller's
// current view of the account; rules run against it before anything is locked.
type WithdrawInput struct {
	Account domain.Account
	Amount  decimal.Decimal
}

// InvestInput represents input for an investment.
type InvestInput struct {
	AccountID      string
	Type           string
	Amount         decimal.Decimal
	CurrentBalance decimal.Decimal
}

// Deposit credits an account and records a DEPOSIT entry.
func (uc *LedgerUseCase) Deposit(ctx context.Context, input DepositInput) (entry *domain.Entry, err error) {
	start := time.Now()
	defer func() { observe(ctx, uc.metrics, OperationDeposit, input.Amount, start, err) }()

	if err := domain.ValidateDeposit(input.Amount); err != nil {
		return nil, err
	}

	return uc.postEntry(ctx, OperationDeposit, input.AccountID, domain.EntryKindDeposit, input.Amount)
}

// Withdraw validates a withdrawal against the account snapshot, then debits the
// account and records a WITHDRAWAL entry.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, input WithdrawInput) (entry *domain.Entry, err error) {
	start := time.Now()
	defer func() { observe(ctx, uc.metrics, OperationWithdraw, input.Amount, start, err) }()

	if err := domain.ValidateWithdrawal(&input.Account, input.Amount, uc.clock.Now()); err != nil {
		return nil, err
	}

	return uc.postEntry(ctx, OperationWithdraw, input.Account.ID, domain.EntryKindWithdrawal, input.Amount)
}

// Invest validates an investment, then debits the account and records the
// investment.
func (uc *LedgerUseCase) Invest(ctx context.Context, input InvestInput) (investment *domain.Investment, err error) {
	start := time.Now()
	defer func() { observe(ctx, uc.metrics, OperationInvest, input.Amount, start, err) }()

	investmentType, err := domain.ValidateInvestment(input.Type, input.Amount, input.CurrentBalance)
	if err != nil {
		return nil, err
	}

	err = withTransaction(ctx, uc.txManager, OperationInvest, func(ctx context.Context, tx Transaction) error {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		// The snapshot may be stale; the locked row has the final say.
		newBalance, err := account.ApplyDebit(input.Amount)
		if err != nil {
			return err
		}

		now := uc.clock.Now().UTC()
		if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
			return err
		}

		investment = &domain.Investment{
			ID:           uc.idGen.Generate(),
			AccountID:    account.ID,
			Type:         investmentType,
			Amount:       input.Amount,
			BalanceAfter: newBalance,
			CreatedAt:    now,
		}

		return uc.investmentRepo.Create(ctx, tx, investment)
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("operation", OperationInvest).
		Str("account_id", investment.AccountID).
		Str("investment_id", investment.ID).
		Str("type", string(investment.Type)).
		Str("amount", investment.Amount.String()).
		Msg("investment applied")

	return investment, nil
}

// postEntry moves amount in or out of one account and records the entry in the
// same unit of work.
func (uc *LedgerUseCase) postEntry(ctx context.Context, op, accountID string, kind domain.EntryKind, amount decimal.Decimal) (*domain.Entry, error) {
	var entry *domain.Entry

	err := withTransaction(ctx, uc.txManager, op, func(ctx context.Context, tx Transaction) error {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		var newBalance decimal.Decimal
		if kind.IsDebit() {
			newBalance, err = account.ApplyDebit(amount)
		} else {
			newBalance, err = account.ApplyCredit(amount)
		}
		if err != nil {
			return err
		}

		now := uc.clock.Now().UTC()
		if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
			return err
		}

		entry = &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    account.ID,
			Kind:         kind,
			Amount:       amount,
			BalanceAfter: newBalance,
			CreatedAt:    now,
		}

		return uc.entryRepo.Create(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("operation", op).
		Str("account_id", entry.AccountID).
		Str("entry_id", entry.ID).
		Str("amount", entry.Amount.String()).
		Str("balance", entry.BalanceAfter.String()).
		Msg("entry posted")

	return entry, nil
}
