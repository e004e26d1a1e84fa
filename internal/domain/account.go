package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SalaryAccountPrefix marks salary accounts, which cannot be withdrawn from or
// transferred to.
const SalaryAccountPrefix = "9"

// Account represents a client's bank account.
type Account struct {
	ID        string
	Agency    string
	Number    string
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSalary reports whether the account number marks a salary account.
func (a *Account) IsSalary() bool {
	return strings.HasPrefix(a.Number, SalaryAccountPrefix)
}

// HasFunds reports whether the balance covers amount.
func (a *Account) HasFunds(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// ApplyDebit returns the balance after removing amount. The balance never goes
// negative.
func (a *Account) ApplyDebit(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return a.Balance, ErrInvalidAmount
	}

	newBalance := a.Balance.Sub(amount)
	if newBalance.IsNegative() {
		return a.Balance, ErrInsufficientFunds
	}

	return newBalance, nil
}

// ApplyCredit returns the balance after adding amount.
func (a *Account) ApplyCredit(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return a.Balance, ErrInvalidAmount
	}

	return a.Balance.Add(amount), nil
}
