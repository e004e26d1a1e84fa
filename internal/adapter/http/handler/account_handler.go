package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
)

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Me returns the authenticated user and, for clients, their account.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	resp := dto.MeResponse{User: dto.UserFromDomain(user)}

	if user.IsClient() {
		account, err := h.accountUC.GetAccount(r.Context(), user.AccountID())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		resp.Account = dto.AccountFromDomain(account)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get retrieves an account by ID. Clients may only read their own.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidInput), "missing account ID")
		return
	}

	if !user.CanAccessAccount(id) {
		writeDomainError(w, r, domain.ErrInsufficientRole)
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Lookup finds an account by agency and number query parameters.
func (h *AccountHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	agency := r.URL.Query().Get("agency")
	number := r.URL.Query().Get("number")
	if agency == "" || number == "" {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidInput), "agency and number are required")
		return
	}

	account, err := h.accountUC.GetAccountByNumber(r.Context(), agency, number)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
