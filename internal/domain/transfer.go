package domain

import "github.com/shopspring/decimal"

// ValidateTransfer runs the transfer rules that follow destination lookup.
// Destination client resolution is left to the caller since it needs a store.
func ValidateTransfer(source *Account, sourceIncome decimal.Decimal, destination *Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !source.HasFunds(amount) {
		return ErrInsufficientFunds
	}

	if destination.ID == source.ID {
		return ErrSameAccount
	}

	if amount.GreaterThan(MaxTransferAmount) {
		return ErrTransferLimitExceeded
	}

	if BlockedAgencies[destination.Agency] {
		return ErrAgencyBlocked
	}

	if sourceIncome.LessThan(LowIncomeThreshold) && amount.GreaterThan(LowIncomeTransferLimit) {
		return ErrLowIncomeLimitExceeded
	}

	if destination.IsSalary() {
		return ErrSalaryAccountBlocked
	}

	return nil
}
