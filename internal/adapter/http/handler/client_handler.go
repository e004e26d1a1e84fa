package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// ClientService defines client registration and the manager operations.
type ClientService interface {
	RegisterClient(ctx context.Context, input usecase.RegisterClientInput) (*domain.User, *domain.Account, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetClientByAccount(ctx context.Context, accountID string) (*domain.User, error)
	UpdateClient(ctx context.Context, actor *domain.User, input usecase.UpdateClientInput) (*domain.User, error)
	DeleteClient(ctx context.Context, actor *domain.User, id string) error
	SearchClients(ctx context.Context, actor *domain.User, input usecase.SearchClientsInput) ([]*domain.User, error)
}

// TokenIssuer signs bearer tokens for users.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

// ClientHandler handles client-related HTTP requests.
type ClientHandler struct {
	clientUC ClientService
	tokens   TokenIssuer
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientUC ClientService, tokens TokenIssuer) *ClientHandler {
	return &ClientHandler{clientUC: clientUC, tokens: tokens}
}

// Register opens an account for a new client and returns a token for it.
func (h *ClientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, account, err := h.clientUC.RegisterClient(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RegisterClientResponse{
		User:    dto.UserFromDomain(user),
		Account: dto.AccountFromDomain(account),
		Token:   token,
	})
}

// Search lists clients matching the q query parameter.
func (h *ClientHandler) Search(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	input := usecase.SearchClientsInput{
		Query:  r.URL.Query().Get("q"),
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}

	clients, err := h.clientUC.SearchClients(r.Context(), actor, input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	writeJSON(w, http.StatusOK, dto.ListClientsResponse{
		Clients: dto.UsersFromDomain(clients),
		Limit:   limit,
		Offset:  offset,
	})
}

// Get retrieves a client by ID.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if actor.ID != id && !actor.Role.CanManageClients() {
		writeDomainError(w, r, domain.ErrInsufficientRole)
		return
	}

	user, err := h.clientUC.GetUser(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Update changes a client's name, email or income.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.clientUC.UpdateClient(r.Context(), actor, req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Delete removes a client together with the account and its history.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.clientUC.DeleteClient(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AccountOwner returns the client that owns an account.
func (h *ClientHandler) AccountOwner(w http.ResponseWriter, r *http.Request) {
	user, err := h.clientUC.GetClientByAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}
