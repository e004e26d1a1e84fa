package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createUser = `-- name: CreateUser :exec
INSERT INTO users (id, name, email, role, account_id, income, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateUserParams struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Role      string             `json:"role"`
	AccountID pgtype.Text        `json:"account_id"`
	Income    pgtype.Numeric     `json:"income"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) error {
	_, err := q.db.Exec(ctx, createUser,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Role,
		arg.AccountID,
		arg.Income,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteUser = `-- name: DeleteUser :execrows
DELETE FROM users WHERE id = $1
`

func (q *Queries) DeleteUser(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getUserByAccountID = `-- name: GetUserByAccountID :one
SELECT id, name, email, role, account_id, income, created_at, updated_at FROM users WHERE account_id = $1
`

func (q *Queries) GetUserByAccountID(ctx context.Context, accountID pgtype.Text) (User, error) {
	row := q.db.QueryRow(ctx, getUserByAccountID, accountID)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Role,
		&i.AccountID,
		&i.Income,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserByID = `-- name: GetUserByID :one
SELECT id, name, email, role, account_id, income, created_at, updated_at FROM users WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Role,
		&i.AccountID,
		&i.Income,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const searchClients = `-- name: SearchClients :many
SELECT id, name, email, role, account_id, income, created_at, updated_at FROM users
WHERE role = 'client'
  AND (name ILIKE '%' || $1::text || '%' OR email ILIKE '%' || $1::text || '%')
ORDER BY name, id
LIMIT $2 OFFSET $3
`

type SearchClientsParams struct {
	Query     string `json:"query"`
	RowLimit  int32  `json:"row_limit"`
	RowOffset int32  `json:"row_offset"`
}

func (q *Queries) SearchClients(ctx context.Context, arg SearchClientsParams) ([]User, error) {
	rows, err := q.db.Query(ctx, searchClients, arg.Query, arg.RowLimit, arg.RowOffset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []User{}
	for rows.Next() {
		var i User
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Email,
			&i.Role,
			&i.AccountID,
			&i.Income,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateUser = `-- name: UpdateUser :execrows
UPDATE users
SET name = $2, email = $3, income = $4, updated_at = $5
WHERE id = $1
`

type UpdateUserParams struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Income    pgtype.Numeric     `json:"income"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateUser,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Income,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
