package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Business limits
var (
	MaxWithdrawalAmount      = decimal.NewFromInt(2000)
	MinWithdrawalAmount      = decimal.NewFromInt(10)
	WithdrawalStep           = decimal.NewFromInt(10)
	LargeWithdrawalThreshold = decimal.NewFromInt(1000)

	MaxTransferAmount      = decimal.NewFromInt(5000)
	LowIncomeThreshold     = decimal.NewFromInt(2000)
	LowIncomeTransferLimit = decimal.NewFromInt(1000)
	MinInvestmentAmountFII = decimal.NewFromInt(1000)
	MinInvestmentAmountCDB = decimal.NewFromInt(100)
)

const (
	maxClientNameLength = 255

	// Withdrawals above LargeWithdrawalThreshold are allowed in [06:00, 22:00).
	largeWithdrawalOpenHour = 6
	largeWithdrawalEndHour  = 22
)

// BlockedAgencies are administrative branch codes that never receive transfers.
var BlockedAgencies = map[string]bool{
	"9999": true,
	"0000": true,
}

// Registration errors
var (
	ErrInvalidClientName = newError(KindInvalidInput, "invalid client name")
	ErrInvalidEmail      = newError(KindInvalidInput, "invalid email format")
	ErrInvalidIncome     = newError(KindInvalidInput, "income must not be negative")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateDeposit checks a deposit amount.
func ValidateDeposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateWithdrawal runs the withdrawal rules in order against an account
// snapshot. now decides the large-withdrawal window and must already be in the
// bank's time zone.
func ValidateWithdrawal(account *Account, amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(MaxWithdrawalAmount) {
		return ErrWithdrawalLimitExceeded
	}

	if !amount.Mod(WithdrawalStep).IsZero() {
		return ErrNotAMultipleOfTen
	}

	if amount.LessThan(MinWithdrawalAmount) {
		return ErrBelowMinimum
	}

	if account.IsSalary() {
		return ErrSalaryAccountBlocked
	}

	if amount.GreaterThan(LargeWithdrawalThreshold) && !withinLargeWithdrawalWindow(now) {
		return ErrOutsideAllowedWindow
	}

	if !account.HasFunds(amount) {
		return ErrInsufficientFunds
	}

	return nil
}

func withinLargeWithdrawalWindow(now time.Time) bool {
	hour := now.Hour()
	return hour >= largeWithdrawalOpenHour && hour < largeWithdrawalEndHour
}

// ValidateInvestment runs the investment rules in order and returns the
// normalized type.
func ValidateInvestment(rawType string, amount, balance decimal.Decimal) (InvestmentType, error) {
	investmentType, err := ParseInvestmentType(rawType)
	if err != nil {
		return "", err
	}

	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}

	if balance.LessThan(amount) {
		return "", ErrInsufficientFunds
	}

	switch investmentType {
	case InvestmentFII:
		if amount.LessThan(MinInvestmentAmountFII) {
			return "", ErrBelowMinimumFII
		}
	case InvestmentCDB:
		if amount.LessThan(MinInvestmentAmountCDB) {
			return "", ErrBelowMinimumCDB
		}
	}

	return investmentType, nil
}

// ValidateClientName validates a client's display name
func ValidateClientName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidClientName)
	}

	if len(name) > maxClientNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidClientName, maxClientNameLength)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateIncome rejects negative income.
func ValidateIncome(income decimal.Decimal) error {
	if income.IsNegative() {
		return ErrInvalidIncome
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
