package postgres

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/oklog/ulid/v2"

	"github.com/iho/gobank/internal/domain"
)

// ULIDGenerator generates ULID-based IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

// accountNumberDigits is the length of an account number.
const accountNumberDigits = 8

// AccountNumberGenerator issues random account numbers. Regular numbers never
// start with the salary prefix. Collisions surface as ErrDuplicateAccount on
// insert.
type AccountNumberGenerator struct{}

// NewAccountNumberGenerator creates a new AccountNumberGenerator.
func NewAccountNumberGenerator() *AccountNumberGenerator {
	return &AccountNumberGenerator{}
}

// Generate returns a new account number.
func (g *AccountNumberGenerator) Generate(salary bool) string {
	// Leading digit: 9 for salary accounts, 1-8 otherwise.
	lead := domain.SalaryAccountPrefix
	if !salary {
		lead = fmt.Sprintf("%d", 1+randomInt(8))
	}

	rest := randomInt(10_000_000)

	return fmt.Sprintf("%s%0*d", lead, accountNumberDigits-1, rest)
}

func randomInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return v.Int64()
}
