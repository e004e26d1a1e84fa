package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createInvestment = `-- name: CreateInvestment :exec
INSERT INTO investments (id, account_id, type, amount, balance_after, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateInvestmentParams struct {
	ID           string             `json:"id"`
	AccountID    string             `json:"account_id"`
	Type         string             `json:"type"`
	Amount       pgtype.Numeric     `json:"amount"`
	BalanceAfter pgtype.Numeric     `json:"balance_after"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateInvestment(ctx context.Context, arg CreateInvestmentParams) error {
	_, err := q.db.Exec(ctx, createInvestment,
		arg.ID,
		arg.AccountID,
		arg.Type,
		arg.Amount,
		arg.BalanceAfter,
		arg.CreatedAt,
	)
	return err
}

const listInvestmentsByAccount = `-- name: ListInvestmentsByAccount :many
SELECT id, account_id, type, amount, balance_after, created_at FROM investments
WHERE account_id = $1
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at < $3)
ORDER BY created_at DESC, id DESC
`

type ListInvestmentsByAccountParams struct {
	AccountID string             `json:"account_id"`
	FromTime  pgtype.Timestamptz `json:"from_time"`
	UntilTime pgtype.Timestamptz `json:"until_time"`
}

func (q *Queries) ListInvestmentsByAccount(ctx context.Context, arg ListInvestmentsByAccountParams) ([]Investment, error) {
	rows, err := q.db.Query(ctx, listInvestmentsByAccount, arg.AccountID, arg.FromTime, arg.UntilTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Investment{}
	for rows.Next() {
		var i Investment
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Type,
			&i.Amount,
			&i.BalanceAfter,
			&i.CreatedAt,
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
