package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ApplyDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		amount      decimal.Decimal
		expected    decimal.Decimal
		expectError error
	}{
		{
			name:     "debit less than balance",
			balance:  decimal.NewFromInt(100),
			amount:   decimal.NewFromInt(30),
			expected: decimal.NewFromInt(70),
		},
		{
			name:     "debit exact balance",
			balance:  decimal.NewFromInt(100),
			amount:   decimal.NewFromInt(100),
			expected: decimal.Zero,
		},
		{
			name:        "debit more than balance",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(150),
			expected:    decimal.NewFromInt(100),
			expectError: ErrInsufficientFunds,
		},
		{
			name:        "zero amount",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.Zero,
			expected:    decimal.NewFromInt(100),
			expectError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance}

			newBalance, err := acc.ApplyDebit(tt.amount)

			if err != tt.expectError {
				t.Fatalf("expected error %v, got %v", tt.expectError, err)
			}
			if !newBalance.Equal(tt.expected) {
				t.Errorf("expected balance %s, got %s", tt.expected, newBalance)
			}
		})
	}
}

func TestAccount_ApplyCredit(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(100)}

	newBalance, err := acc.ApplyCredit(decimal.NewFromInt(30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(130)
	if !newBalance.Equal(expected) {
		t.Errorf("expected balance %s, got %s", expected, newBalance)
	}

	if _, err := acc.ApplyCredit(decimal.NewFromInt(-1)); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestAccount_IsSalary(t *testing.T) {
	if !(&Account{Number: "91234567"}).IsSalary() {
		t.Error("expected number starting with 9 to be a salary account")
	}
	if (&Account{Number: "19234567"}).IsSalary() {
		t.Error("expected number starting with 1 not to be a salary account")
	}
}
