package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID        string             `json:"id"`
	Agency    string             `json:"agency"`
	Number    string             `json:"number"`
	Balance   pgtype.Numeric     `json:"balance"`
	Version   int64              `json:"version"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Entry struct {
	ID           string             `json:"id"`
	AccountID    string             `json:"account_id"`
	TransferID   pgtype.Text        `json:"transfer_id"`
	Kind         string             `json:"kind"`
	Amount       pgtype.Numeric     `json:"amount"`
	BalanceAfter pgtype.Numeric     `json:"balance_after"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type Investment struct {
	ID           string             `json:"id"`
	AccountID    string             `json:"account_id"`
	Type         string             `json:"type"`
	Amount       pgtype.Numeric     `json:"amount"`
	BalanceAfter pgtype.Numeric     `json:"balance_after"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type User struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Role      string             `json:"role"`
	AccountID pgtype.Text        `json:"account_id"`
	Income    pgtype.Numeric     `json:"income"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}
