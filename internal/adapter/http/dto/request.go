package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/usecase"
)

// RegisterClientRequest represents a request to open a client account.
type RegisterClientRequest struct {
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Income decimal.Decimal `json:"income"`
	Salary bool            `json:"salary"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterClientRequest) ToUseCaseInput() usecase.RegisterClientInput {
	return usecase.RegisterClientInput{
		Name:   r.Name,
		Email:  r.Email,
		Income: r.Income,
		Salary: r.Salary,
	}
}

// AmountRequest is the body of deposits and withdrawals.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// InvestRequest represents a request to invest.
type InvestRequest struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest names the destination by agency and number. The same body
// is sent to prepare and to commit.
type TransferRequest struct {
	Agency string          `json:"agency"`
	Number string          `json:"number"`
	Amount decimal.Decimal `json:"amount"`
}

// UpdateClientRequest carries the fields a manager may change. Omitted fields
// stay as they are.
type UpdateClientRequest struct {
	Name   *string          `json:"name,omitempty"`
	Email  *string          `json:"email,omitempty"`
	Income *decimal.Decimal `json:"income,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateClientRequest) ToUseCaseInput(id string) usecase.UpdateClientInput {
	return usecase.UpdateClientInput{
		ID:     id,
		Name:   r.Name,
		Email:  r.Email,
		Income: r.Income,
	}
}
