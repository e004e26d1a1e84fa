package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// User is either a client or a manager. Shared fields live here; client-only
// data hangs off Client, which is nil for managers.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Client    *ClientProfile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientProfile holds the data only clients have.
type ClientProfile struct {
	AccountID string
	Income    decimal.Decimal
}

// IsClient reports whether the user is a client with a profile attached.
func (u *User) IsClient() bool {
	return u.Role == RoleClient && u.Client != nil
}

// Income returns the client's income, zero for managers.
func (u *User) Income() decimal.Decimal {
	if u.Client == nil {
		return decimal.Zero
	}
	return u.Client.Income
}

// AccountID returns the client's account id, empty for managers.
func (u *User) AccountID() string {
	if u.Client == nil {
		return ""
	}
	return u.Client.AccountID
}

// Role represents a user's access level
type Role string

const (
	// RoleClient owns one account and moves money through it
	RoleClient Role = "client"

	// RoleManager searches, edits and deletes client records
	RoleManager Role = "manager"
)

var validRoles = map[Role]bool{
	RoleClient:  true,
	RoleManager: true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanTransact checks if the role can move money
func (r Role) CanTransact() bool {
	return r == RoleClient
}

// CanManageClients checks if the role can search, edit and delete clients
func (r Role) CanManageClients() bool {
	return r == RoleManager
}

// CanAccessAccount checks whether the user may operate on accountID.
func (u *User) CanAccessAccount(accountID string) bool {
	if u.Role.CanManageClients() {
		return true
	}
	return u.IsClient() && u.Client.AccountID == accountID
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = newError(KindForbidden, "insufficient role for this operation")
)
