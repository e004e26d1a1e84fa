package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// ClientUseCase registers clients and serves the manager's client operations.
type ClientUseCase struct {
	txManager   TransactionManager
	userRepo    UserRepository
	accountRepo AccountRepository
	idGen       IDGenerator
	numberGen   AccountNumberGenerator
	clock       Clock
	agency      string
}

// NewClientUseCase creates a new ClientUseCase. New accounts open at agency.
func NewClientUseCase(
	txManager TransactionManager,
	userRepo UserRepository,
	accountRepo AccountRepository,
	idGen IDGenerator,
	numberGen AccountNumberGenerator,
	clock Clock,
	agency string,
) *ClientUseCase {
	return &ClientUseCase{
		txManager:   txManager,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
		numberGen:   numberGen,
		clock:       clock,
		agency:      agency,
	}
}

// RegisterClientInput represents input for registering a client.
type RegisterClientInput struct {
	Name   string
	Email  string
	Income decimal.Decimal
	Salary bool
}

// RegisterClient creates the client and its single account together.
func (uc *ClientUseCase) RegisterClient(ctx context.Context, input RegisterClientInput) (*domain.User, *domain.Account, error) {
	if err := domain.ValidateClientName(input.Name); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateIncome(input.Income); err != nil {
		return nil, nil, err
	}

	now := uc.clock.Now().UTC()

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		Agency:    uc.agency,
		Number:    uc.numberGen.Generate(input.Salary),
		Balance:   decimal.Zero,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	user := &domain.User{
		ID:    uc.idGen.Generate(),
		Name:  strings.TrimSpace(input.Name),
		Email: normalizeEmail(input.Email),
		Role:  domain.RoleClient,
		Client: &domain.ClientProfile{
			AccountID: account.ID,
			Income:    input.Income,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := withTransaction(ctx, uc.txManager, "register client", func(ctx context.Context, tx Transaction) error {
		if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
			return err
		}
		return uc.userRepo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("user_id", user.ID).
		Str("account_id", account.ID).
		Str("agency", account.Agency).
		Str("number", account.Number).
		Msg("client registered")

	return user, account, nil
}

// RegisterManager creates a manager. Managers own no account.
func (uc *ClientUseCase) RegisterManager(ctx context.Context, name, email string) (*domain.User, error) {
	if err := domain.ValidateClientName(name); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	user := &domain.User{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(name),
		Email:     normalizeEmail(email),
		Role:      domain.RoleManager,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := withTransaction(ctx, uc.txManager, "register manager", func(ctx context.Context, tx Transaction) error {
		return uc.userRepo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *ClientUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInfraError("get user", err)
	}
	return user, nil
}

// GetClientByAccount resolves the client that owns accountID.
func (uc *ClientUseCase) GetClientByAccount(ctx context.Context, accountID string) (*domain.User, error) {
	user, err := uc.userRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, domain.NewInfraError("get client by account", err)
	}
	return user, nil
}

// UpdateClientInput carries the fields a manager may edit. Nil means unchanged.
type UpdateClientInput struct {
	ID     string
	Name   *string
	Email  *string
	Income *decimal.Decimal
}

// UpdateClient edits a client record.
func (uc *ClientUseCase) UpdateClient(ctx context.Context, actor *domain.User, input UpdateClientInput) (*domain.User, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	user, err := uc.getClient(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateClientName(*input.Name); err != nil {
			return nil, err
		}
		user.Name = strings.TrimSpace(*input.Name)
	}

	if input.Email != nil {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
		user.Email = normalizeEmail(*input.Email)
	}

	if input.Income != nil {
		if err := domain.ValidateIncome(*input.Income); err != nil {
			return nil, err
		}
		user.Client.Income = *input.Income
	}

	user.UpdatedAt = uc.clock.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, domain.NewInfraError("update client", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("user_id", user.ID).
		Str("manager_id", actor.ID).
		Msg("client updated")

	return user, nil
}

// DeleteClient removes a client, its account and the account's history.
func (uc *ClientUseCase) DeleteClient(ctx context.Context, actor *domain.User, id string) error {
	if err := requireManager(actor); err != nil {
		return err
	}

	user, err := uc.getClient(ctx, id)
	if err != nil {
		return err
	}

	err = withTransaction(ctx, uc.txManager, "delete client", func(ctx context.Context, tx Transaction) error {
		// Lock first so no operation on the account is in flight.
		if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, user.AccountID()); err != nil {
			return err
		}

		if err := uc.userRepo.Delete(ctx, tx, user.ID); err != nil {
			return err
		}

		return uc.accountRepo.Delete(ctx, tx, user.AccountID())
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("user_id", user.ID).
		Str("account_id", user.AccountID()).
		Str("manager_id", actor.ID).
		Msg("client deleted")

	return nil
}

// SearchClientsInput represents input for a manager search.
type SearchClientsInput struct {
	Query  string
	Limit  int
	Offset int
}

// SearchClients finds clients by name or email.
func (uc *ClientUseCase) SearchClients(ctx context.Context, actor *domain.User, input SearchClientsInput) ([]*domain.User, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	users, err := uc.userRepo.Search(ctx, strings.TrimSpace(input.Query), limit, offset)
	if err != nil {
		return nil, domain.NewInfraError("search clients", err)
	}

	return users, nil
}

func (uc *ClientUseCase) getClient(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInfraError("get client", err)
	}

	if !user.IsClient() {
		return nil, domain.ErrUserNotFound
	}

	return user, nil
}

func requireManager(actor *domain.User) error {
	if actor == nil || !actor.Role.CanManageClients() {
		return domain.ErrInsufficientRole
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
