package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// TransferUseCase handles transfer business logic. Preparation validates and
// returns a confirmation; commit moves the money.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	userRepo    UserRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	clock       Clock
	metrics     MetricsRecorder
}

// NewTransferUseCase creates a new TransferUseCase. metrics may be nil.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	userRepo UserRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	clock Clock,
	metrics MetricsRecorder,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		clock:       clock,
		metrics:     metricsOrNoop(metrics),
	}
}

// PrepareTransferInput represents input for preparing a transfer.
type PrepareTransferInput struct {
	Source            *domain.User
	SourceAccount     domain.Account
	DestinationAgency string
	DestinationNumber string
	Amount            decimal.Decimal
}

// TransferConfirmation is what the client confirms before the commit.
type TransferConfirmation struct {
	SourceClient       *domain.User
	SourceAccount      domain.Account
	DestinationClient  *domain.User
	DestinationAccount *domain.Account
	Amount             decimal.Decimal
}

// CommitTransferInput represents input for committing a transfer.
type CommitTransferInput struct {
	SourceAccountID      string
	DestinationAccountID string
	Amount               decimal.Decimal
}

// TransferResult holds both legs of a committed transfer.
type TransferResult struct {
	TransferID string
	Sent       *domain.Entry
	Received   *domain.Entry
}

// PrepareTransfer resolves the destination and runs the transfer rules. It
// only reads.
func (uc *TransferUseCase) PrepareTransfer(ctx context.Context, input PrepareTransferInput) (confirmation *TransferConfirmation, err error) {
	start := time.Now()
	defer func() { observe(ctx, uc.metrics, OperationPrepareTransfer, input.Amount, start, err) }()

	if input.Source == nil || !input.Source.IsClient() {
		return nil, domain.ErrInsufficientRole
	}

	agency := strings.TrimSpace(input.DestinationAgency)
	number := strings.TrimSpace(input.DestinationNumber)

	destination, err := uc.accountRepo.GetByAgencyAndNumber(ctx, agency, number)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrDestinationNotFound
		}
		return nil, domain.NewInfraError("resolve destination account", err)
	}

	if err := domain.ValidateTransfer(&input.SourceAccount, input.Source.Income(), destination, input.Amount); err != nil {
		return nil, err
	}

	destinationClient, err := uc.userRepo.GetByAccountID(ctx, destination.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrDestinationClientNotFound
		}
		return nil, domain.NewInfraError("resolve destination client", err)
	}

	return &TransferConfirmation{
		SourceClient:       input.Source,
		SourceAccount:      input.SourceAccount,
		DestinationClient:  destinationClient,
		DestinationAccount: destination,
		Amount:             input.Amount,
	}, nil
}

// CommitTransfer debits the source, credits the destination and records both
// legs as one unit of work. Rows are locked in ascending id order so opposite
// transfers between the same pair cannot deadlock.
func (uc *TransferUseCase) CommitTransfer(ctx context.Context, input CommitTransferInput) (result *TransferResult, err error) {
	start := time.Now()
	defer func() { observe(ctx, uc.metrics, OperationCommitTransfer, input.Amount, start, err) }()

	if input.SourceAccountID == input.DestinationAccountID {
		return nil, domain.ErrSameAccount
	}

	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	accountIDs := []string{input.SourceAccountID, input.DestinationAccountID}
	sort.Strings(accountIDs)

	err = withTransaction(ctx, uc.txManager, OperationCommitTransfer, func(ctx context.Context, tx Transaction) error {
		accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, accountIDs)
		if err != nil {
			return err
		}

		if len(accounts) != len(accountIDs) {
			return domain.ErrAccountNotFound
		}

		accountMap := uc.buildAccountMap(accounts)
		source := accountMap[input.SourceAccountID]
		destination := accountMap[input.DestinationAccountID]

		if source == nil || destination == nil {
			return domain.ErrAccountNotFound
		}

		sourceBalance, err := source.ApplyDebit(input.Amount)
		if err != nil {
			return err
		}

		destinationBalance, err := destination.ApplyCredit(input.Amount)
		if err != nil {
			return err
		}

		now := uc.clock.Now().UTC()
		transferID := uc.idGen.Generate()

		if err := uc.accountRepo.UpdateBalance(ctx, tx, source.ID, sourceBalance, now); err != nil {
			return err
		}

		if err := uc.accountRepo.UpdateBalance(ctx, tx, destination.ID, destinationBalance, now); err != nil {
			return err
		}

		sent := &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    source.ID,
			TransferID:   transferID,
			Kind:         domain.EntryKindTransferSent,
			Amount:       input.Amount,
			BalanceAfter: sourceBalance,
			CreatedAt:    now,
		}

		if err := uc.entryRepo.Create(ctx, tx, sent); err != nil {
			return err
		}

		received := &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    destination.ID,
			TransferID:   transferID,
			Kind:         domain.EntryKindTransferReceived,
			Amount:       input.Amount,
			BalanceAfter: destinationBalance,
			CreatedAt:    now,
		}

		if err := uc.entryRepo.Create(ctx, tx, received); err != nil {
			return err
		}

		result = &TransferResult{
			TransferID: transferID,
			Sent:       sent,
			Received:   received,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("operation", OperationCommitTransfer).
		Str("transfer_id", result.TransferID).
		Str("from_account_id", input.SourceAccountID).
		Str("to_account_id", input.DestinationAccountID).
		Str("amount", input.Amount.String()).
		Msg("transfer committed")

	return result, nil
}

func (uc *TransferUseCase) buildAccountMap(accounts []*domain.Account) map[string]*domain.Account {
	m := make(map[string]*domain.Account)
	for _, a := range accounts {
		m[a.ID] = a
	}

	return m
}
