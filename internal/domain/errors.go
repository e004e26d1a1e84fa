package domain

import (
	"errors"
	"fmt"
)

// ErrorKind names a domain failure so adapters can map it without matching messages.
type ErrorKind string

const (
	KindInvalidAmount             ErrorKind = "INVALID_AMOUNT"
	KindLimitExceeded             ErrorKind = "LIMIT_EXCEEDED"
	KindNotAMultipleOfTen         ErrorKind = "NOT_A_MULTIPLE_OF_TEN"
	KindBelowMinimum              ErrorKind = "BELOW_MINIMUM"
	KindSalaryAccountBlocked      ErrorKind = "SALARY_ACCOUNT_BLOCKED"
	KindOutsideAllowedWindow      ErrorKind = "OUTSIDE_ALLOWED_WINDOW"
	KindInsufficientFunds         ErrorKind = "INSUFFICIENT_FUNDS"
	KindDestinationNotFound       ErrorKind = "DESTINATION_NOT_FOUND"
	KindSameAccount               ErrorKind = "SAME_ACCOUNT"
	KindAgencyBlocked             ErrorKind = "AGENCY_BLOCKED"
	KindLowIncomeLimitExceeded    ErrorKind = "LOW_INCOME_LIMIT_EXCEEDED"
	KindDestinationClientNotFound ErrorKind = "DESTINATION_CLIENT_NOT_FOUND"
	KindInvalidType               ErrorKind = "INVALID_TYPE"
	KindBelowMinimumFII           ErrorKind = "BELOW_MINIMUM_FII"
	KindBelowMinimumCDB           ErrorKind = "BELOW_MINIMUM_CDB"
	KindInvalidDateRange          ErrorKind = "INVALID_DATE_RANGE"
	KindNotFound                  ErrorKind = "NOT_FOUND"
	KindConflict                  ErrorKind = "CONFLICT"
	KindInvalidInput              ErrorKind = "INVALID_INPUT"
	KindForbidden                 ErrorKind = "FORBIDDEN"
	KindInfrastructure            ErrorKind = "INFRA"
)

// Error is a named business failure. Values are compared by identity, so wrap
// them with %w rather than building new ones.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	// Amount and balance errors
	ErrInvalidAmount     = newError(KindInvalidAmount, "amount must be positive")
	ErrInsufficientFunds = newError(KindInsufficientFunds, "insufficient funds")

	// Withdrawal errors
	ErrWithdrawalLimitExceeded = newError(KindLimitExceeded, "withdrawal exceeds the per-transaction cap of 2000")
	ErrNotAMultipleOfTen       = newError(KindNotAMultipleOfTen, "withdrawal amount must be a multiple of 10")
	ErrBelowMinimum            = newError(KindBelowMinimum, "withdrawal amount must be at least 10")
	ErrSalaryAccountBlocked    = newError(KindSalaryAccountBlocked, "operation not allowed on salary accounts")
	ErrOutsideAllowedWindow    = newError(KindOutsideAllowedWindow, "withdrawals above 1000 are only allowed between 06:00 and 22:00")

	// Transfer errors
	ErrDestinationNotFound       = newError(KindDestinationNotFound, "destination account not found")
	ErrSameAccount               = newError(KindSameAccount, "cannot transfer to same account")
	ErrTransferLimitExceeded     = newError(KindLimitExceeded, "transfer exceeds the per-transaction cap of 5000")
	ErrAgencyBlocked             = newError(KindAgencyBlocked, "transfers to this agency are blocked")
	ErrLowIncomeLimitExceeded    = newError(KindLowIncomeLimitExceeded, "clients with income below 2000 cannot transfer more than 1000")
	ErrDestinationClientNotFound = newError(KindDestinationClientNotFound, "destination client not found")

	// Investment errors
	ErrInvalidInvestmentType = newError(KindInvalidType, "investment type must be one of SELIC, CDB, FII, POUPANCA")
	ErrBelowMinimumFII       = newError(KindBelowMinimumFII, "FII investments require at least 1000")
	ErrBelowMinimumCDB       = newError(KindBelowMinimumCDB, "CDB investments require at least 100")

	// Query errors
	ErrInvalidDateRange = newError(KindInvalidDateRange, "start date must not be after end date")

	// Lookup errors
	ErrAccountNotFound  = newError(KindNotFound, "account not found")
	ErrUserNotFound     = newError(KindNotFound, "user not found")
	ErrDuplicateAccount = newError(KindConflict, "account number already in use")
	ErrDuplicateEmail   = newError(KindConflict, "email already in use")
)

// ErrInfrastructure matches every InfraError via errors.Is.
var ErrInfrastructure = errors.New("infrastructure failure")

// InfraError reports a storage or connectivity failure. The unit of work it
// interrupted has been rolled back.
type InfraError struct {
	Op  string
	Err error
}

// NewInfraError wraps err unless it already carries a domain kind.
func NewInfraError(op string, err error) error {
	if err == nil {
		return nil
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}

	var infraErr *InfraError
	if errors.As(err, &infraErr) {
		return err
	}

	return &InfraError{Op: op, Err: err}
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInfrastructure) true for any InfraError.
func (e *InfraError) Is(target error) bool {
	return target == ErrInfrastructure
}

// KindOf returns the kind carried by err, KindInfrastructure for anything that
// is not a domain error, and "" for nil.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}

	return KindInfrastructure
}

// IsDomainError reports whether err is a business failure rather than an
// infrastructure one.
func IsDomainError(err error) bool {
	var domainErr *Error
	return errors.As(err, &domainErr)
}
