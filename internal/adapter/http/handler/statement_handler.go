package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// StatementService defines the ledger queries.
type StatementService interface {
	ListEntries(ctx context.Context, input usecase.StatementInput) ([]*domain.Entry, error)
	ListInvestments(ctx context.Context, input usecase.StatementInput) ([]*domain.Investment, error)
}

// StatementHandler serves the caller's statement and investment history.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Entries lists the caller's entries, newest first. Optional start and end
// query parameters bound the days.
func (h *StatementHandler) Entries(w http.ResponseWriter, r *http.Request) {
	input, ok := h.input(w, r)
	if !ok {
		return
	}

	entries, err := h.statementUC.ListEntries(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{Entries: dto.EntriesFromDomain(entries)})
}

// Investments lists the caller's investments, newest first.
func (h *StatementHandler) Investments(w http.ResponseWriter, r *http.Request) {
	input, ok := h.input(w, r)
	if !ok {
		return
	}

	investments, err := h.statementUC.ListInvestments(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListInvestmentsResponse{Investments: dto.InvestmentsFromDomain(investments)})
}

func (h *StatementHandler) input(w http.ResponseWriter, r *http.Request) (usecase.StatementInput, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return usecase.StatementInput{}, false
	}

	if !user.IsClient() {
		writeDomainError(w, r, domain.ErrInsufficientRole)
		return usecase.StatementInput{}, false
	}

	rng, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidInput), err.Error())
		return usecase.StatementInput{}, false
	}

	return usecase.StatementInput{AccountID: user.AccountID(), Range: rng}, true
}
