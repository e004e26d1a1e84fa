package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentType is one of the fixed products a client can apply money to.
type InvestmentType string

const (
	InvestmentSELIC    InvestmentType = "SELIC"
	InvestmentCDB      InvestmentType = "CDB"
	InvestmentFII      InvestmentType = "FII"
	InvestmentPoupanca InvestmentType = "POUPANCA"
)

var investmentTypes = map[InvestmentType]bool{
	InvestmentSELIC:    true,
	InvestmentCDB:      true,
	InvestmentFII:      true,
	InvestmentPoupanca: true,
}

// ParseInvestmentType normalizes raw user input into a known type.
func ParseInvestmentType(raw string) (InvestmentType, error) {
	t := InvestmentType(strings.ToUpper(strings.TrimSpace(raw)))
	if !investmentTypes[t] {
		return "", ErrInvalidInvestmentType
	}
	return t, nil
}

// Investment is an append-only record of money applied to a product.
type Investment struct {
	CreatedAt    time.Time
	ID           string
	AccountID    string
	Type         InvestmentType
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
}
