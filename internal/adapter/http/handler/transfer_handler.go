package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/usecase"
)

// TransferService defines the two transfer steps.
type TransferService interface {
	PrepareTransfer(ctx context.Context, input usecase.PrepareTransferInput) (*usecase.TransferConfirmation, error)
	CommitTransfer(ctx context.Context, input usecase.CommitTransferInput) (*usecase.TransferResult, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	accountUC  AccountService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, accountUC AccountService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, accountUC: accountUC}
}

// Prepare runs the transfer rules and returns what the client is about to
// confirm. Nothing is written.
func (h *TransferHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	confirmation, ok := h.prepare(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.ConfirmationFromUseCase(confirmation))
}

// Commit executes a confirmed transfer. The rules run again against a fresh
// snapshot first, so a commit can never skip them.
func (h *TransferHandler) Commit(w http.ResponseWriter, r *http.Request) {
	confirmation, ok := h.prepare(w, r)
	if !ok {
		return
	}

	result, err := h.transferUC.CommitTransfer(r.Context(), usecase.CommitTransferInput{
		SourceAccountID:      confirmation.SourceAccount.ID,
		DestinationAccountID: confirmation.DestinationAccount.ID,
		Amount:               confirmation.Amount,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromUseCase(result))
}

func (h *TransferHandler) prepare(w http.ResponseWriter, r *http.Request) (*usecase.TransferConfirmation, bool) {
	user, account, ok := currentClient(w, r, h.accountUC)
	if !ok {
		return nil, false
	}

	var req dto.TransferRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}

	confirmation, err := h.transferUC.PrepareTransfer(r.Context(), usecase.PrepareTransferInput{
		Source:            user,
		SourceAccount:     *account,
		DestinationAgency: req.Agency,
		DestinationNumber: req.Number,
		Amount:            req.Amount,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}

	return confirmation, true
}
