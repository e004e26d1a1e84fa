package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind tells which way an entry moved money. Amounts are always positive.
type EntryKind string

const (
	EntryKindDeposit          EntryKind = "DEPOSIT"
	EntryKindWithdrawal       EntryKind = "WITHDRAWAL"
	EntryKindTransferSent     EntryKind = "TRANSFER_SENT"
	EntryKindTransferReceived EntryKind = "TRANSFER_RECEIVED"
)

// IsDebit reports whether the kind lowers the balance.
func (k EntryKind) IsDebit() bool {
	return k == EntryKindWithdrawal || k == EntryKindTransferSent
}

// IsValid reports whether k is a known kind.
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindDeposit, EntryKindWithdrawal, EntryKindTransferSent, EntryKindTransferReceived:
		return true
	}
	return false
}

// Entry is an append-only ledger record of a balance-affecting event.
type Entry struct {
	CreatedAt    time.Time
	ID           string
	AccountID    string
	TransferID   string
	Kind         EntryKind
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
}

// SignedAmount returns the amount with the sign implied by the kind.
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.Kind.IsDebit() {
		return e.Amount.Neg()
	}
	return e.Amount
}
