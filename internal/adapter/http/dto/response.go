package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	Agency    string          `json:"agency"`
	Number    string          `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	Salary    bool            `json:"salary"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Agency:    a.Agency,
		Number:    a.Number,
		Balance:   a.Balance,
		Salary:    a.IsSalary(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// UserResponse represents a client or manager in API responses.
type UserResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      domain.Role      `json:"role"`
	AccountID string           `json:"account_id,omitempty"`
	Income    *decimal.Decimal `json:"income,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	if u.IsClient() {
		income := u.Client.Income
		resp.AccountID = u.Client.AccountID
		resp.Income = &income
	}

	return resp
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// RegisterClientResponse is returned when a client opens an account.
type RegisterClientResponse struct {
	User    *UserResponse    `json:"user"`
	Account *AccountResponse `json:"account"`
	Token   string           `json:"token"`
}

// MeResponse describes the authenticated user and, for clients, their account.
type MeResponse struct {
	User    *UserResponse    `json:"user"`
	Account *AccountResponse `json:"account,omitempty"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID           string           `json:"id"`
	AccountID    string           `json:"account_id"`
	TransferID   string           `json:"transfer_id,omitempty"`
	Kind         domain.EntryKind `json:"kind"`
	Amount       decimal.Decimal  `json:"amount"`
	BalanceAfter decimal.Decimal  `json:"balance_after"`
	CreatedAt    time.Time        `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:           e.ID,
		AccountID:    e.AccountID,
		TransferID:   e.TransferID,
		Kind:         e.Kind,
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		CreatedAt:    e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps a statement.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
}

// InvestmentResponse represents an investment in API responses.
type InvestmentResponse struct {
	ID           string                `json:"id"`
	AccountID    string                `json:"account_id"`
	Type         domain.InvestmentType `json:"type"`
	Amount       decimal.Decimal       `json:"amount"`
	BalanceAfter decimal.Decimal       `json:"balance_after"`
	CreatedAt    time.Time             `json:"created_at"`
}

// InvestmentFromDomain converts domain investment to response.
func InvestmentFromDomain(i *domain.Investment) *InvestmentResponse {
	return &InvestmentResponse{
		ID:           i.ID,
		AccountID:    i.AccountID,
		Type:         i.Type,
		Amount:       i.Amount,
		BalanceAfter: i.BalanceAfter,
		CreatedAt:    i.CreatedAt,
	}
}

// ListInvestmentsResponse wraps the investment history.
type ListInvestmentsResponse struct {
	Investments []*InvestmentResponse `json:"investments"`
}

// InvestmentsFromDomain converts domain investments to responses.
func InvestmentsFromDomain(investments []*domain.Investment) []*InvestmentResponse {
	result := make([]*InvestmentResponse, len(investments))
	for i, inv := range investments {
		result[i] = InvestmentFromDomain(inv)
	}
	return result
}

// PartyResponse is one side of a transfer as shown to the sender.
type PartyResponse struct {
	Name      string `json:"name"`
	AccountID string `json:"account_id"`
	Agency    string `json:"agency"`
	Number    string `json:"number"`
}

// TransferConfirmationResponse is what the sender confirms before committing.
type TransferConfirmationResponse struct {
	Source      PartyResponse   `json:"source"`
	Destination PartyResponse   `json:"destination"`
	Amount      decimal.Decimal `json:"amount"`
}

// ConfirmationFromUseCase converts a prepared transfer to response.
func ConfirmationFromUseCase(c *usecase.TransferConfirmation) *TransferConfirmationResponse {
	return &TransferConfirmationResponse{
		Source: PartyResponse{
			Name:      c.SourceClient.Name,
			AccountID: c.SourceAccount.ID,
			Agency:    c.SourceAccount.Agency,
			Number:    c.SourceAccount.Number,
		},
		Destination: PartyResponse{
			Name:      c.DestinationClient.Name,
			AccountID: c.DestinationAccount.ID,
			Agency:    c.DestinationAccount.Agency,
			Number:    c.DestinationAccount.Number,
		},
		Amount: c.Amount,
	}
}

// TransferResponse is returned to the sender of a committed transfer. Only
// the sender's leg is included.
type TransferResponse struct {
	TransferID           string          `json:"transfer_id"`
	DestinationAccountID string          `json:"destination_account_id"`
	Amount               decimal.Decimal `json:"amount"`
	Entry                *EntryResponse  `json:"entry"`
}

// TransferFromUseCase converts a committed transfer to response.
func TransferFromUseCase(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		TransferID:           r.TransferID,
		DestinationAccountID: r.Received.AccountID,
		Amount:               r.Sent.Amount,
		Entry:                EntryFromDomain(r.Sent),
	}
}

// ListClientsResponse wraps a page of search results.
type ListClientsResponse struct {
	Clients []*UserResponse `json:"clients"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}
