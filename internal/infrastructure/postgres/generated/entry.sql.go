package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createEntry = `-- name: CreateEntry :exec
INSERT INTO entries (id, account_id, transfer_id, kind, amount, balance_after, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateEntryParams struct {
	ID           string             `json:"id"`
	AccountID    string             `json:"account_id"`
	TransferID   pgtype.Text        `json:"transfer_id"`
	Kind         string             `json:"kind"`
	Amount       pgtype.Numeric     `json:"amount"`
	BalanceAfter pgtype.Numeric     `json:"balance_after"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) error {
	_, err := q.db.Exec(ctx, createEntry,
		arg.ID,
		arg.AccountID,
		arg.TransferID,
		arg.Kind,
		arg.Amount,
		arg.BalanceAfter,
		arg.CreatedAt,
	)
	return err
}

const listEntriesByAccount = `-- name: ListEntriesByAccount :many
SELECT id, account_id, transfer_id, kind, amount, balance_after, created_at FROM entries
WHERE account_id = $1
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at < $3)
ORDER BY created_at DESC, id DESC
`

type ListEntriesByAccountParams struct {
	AccountID string             `json:"account_id"`
	FromTime  pgtype.Timestamptz `json:"from_time"`
	UntilTime pgtype.Timestamptz `json:"until_time"`
}

func (q *Queries) ListEntriesByAccount(ctx context.Context, arg ListEntriesByAccountParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listEntriesByAccount, arg.AccountID, arg.FromTime, arg.UntilTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.TransferID,
			&i.Kind,
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
