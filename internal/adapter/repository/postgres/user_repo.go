package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	queries *generated.Queries
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db generated.DBTX) *UserRepository {
	return &UserRepository{
		queries: generated.New(db),
	}
}

// Create inserts a user. Client users carry their account id and income.
func (r *UserRepository) Create(ctx context.Context, tx usecase.Transaction, user *domain.User) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	params := generated.CreateUserParams{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: timeToPgTimestamptz(user.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(user.UpdatedAt),
	}

	if user.Client != nil {
		params.AccountID = optionalText(user.Client.AccountID)
		params.Income = decimalToNumeric(user.Client.Income)
	}

	return mapConstraintError(queries.CreateUser(ctx, params))
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row, err := r.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}

		return nil, err
	}

	return rowToUser(row), nil
}

// GetByAccountID retrieves the client owning accountID.
func (r *UserRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.User, error) {
	row, err := r.queries.GetUserByAccountID(ctx, pgtype.Text{String: accountID, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}

		return nil, err
	}

	return rowToUser(row), nil
}

// Update writes a user's editable fields.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	var income pgtype.Numeric
	if user.Client != nil {
		income = decimalToNumeric(user.Client.Income)
	}

	affected, err := r.queries.UpdateUser(ctx, generated.UpdateUserParams{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Income:    income,
		UpdatedAt: timeToPgTimestamptz(user.UpdatedAt),
	})
	if err != nil {
		return mapConstraintError(err)
	}

	if affected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// Delete removes a user.
func (r *UserRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	affected, err := queries.DeleteUser(ctx, id)
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// Search matches clients by name or email, ordered by name.
func (r *UserRepository) Search(ctx context.Context, query string, limit, offset int) ([]*domain.User, error) {
	rows, err := r.queries.SearchClients(ctx, generated.SearchClientsParams{
		Query:     query,
		RowLimit:  int32(limit),
		RowOffset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, rowToUser(row))
	}

	return users, nil
}

func rowToUser(row generated.User) *domain.User {
	user := &domain.User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Role:      domain.Role(row.Role),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}

	if user.Role == domain.RoleClient && row.AccountID.Valid {
		user.Client = &domain.ClientProfile{
			AccountID: row.AccountID.String,
			Income:    numericToDecimal(row.Income),
		}
	}

	return user
}
