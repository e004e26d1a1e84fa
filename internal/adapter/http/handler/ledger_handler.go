package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// LedgerService defines the money movements LedgerHandler exposes.
type LedgerService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Entry, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Entry, error)
	Invest(ctx context.Context, input usecase.InvestInput) (*domain.Investment, error)
}

// LedgerHandler handles deposits, withdrawals and investments on the caller's
// own account.
type LedgerHandler struct {
	ledgerUC  LedgerService
	accountUC AccountService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, accountUC AccountService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, accountUC: accountUC}
}

// Deposit credits the caller's account.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	_, account, ok := currentClient(w, r, h.accountUC)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.ledgerUC.Deposit(r.Context(), usecase.DepositInput{
		AccountID: account.ID,
		Amount:    req.Amount,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Withdraw debits the caller's account.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	_, account, ok := currentClient(w, r, h.accountUC)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.ledgerUC.Withdraw(r.Context(), usecase.WithdrawInput{
		Account: *account,
		Amount:  req.Amount,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Invest applies money from the caller's account to an investment product.
func (h *LedgerHandler) Invest(w http.ResponseWriter, r *http.Request) {
	_, account, ok := currentClient(w, r, h.accountUC)
	if !ok {
		return
	}

	var req dto.InvestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	investment, err := h.ledgerUC.Invest(r.Context(), usecase.InvestInput{
		AccountID:      account.ID,
		Type:           req.Type,
		Amount:         req.Amount,
		CurrentBalance: account.Balance,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.InvestmentFromDomain(investment))
}
