package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

type clientServiceStub struct {
	registerFn func(ctx context.Context, input usecase.RegisterClientInput) (*domain.User, *domain.Account, error)
	getFn      func(ctx context.Context, id string) (*domain.User, error)
	updateFn   func(ctx context.Context, actor *domain.User, input usecase.UpdateClientInput) (*domain.User, error)
	deleteFn   func(ctx context.Context, actor *domain.User, id string) error
	searchFn   func(ctx context.Context, actor *domain.User, input usecase.SearchClientsInput) ([]*domain.User, error)
	ownerFn    func(ctx context.Context, accountID string) (*domain.User, error)
}

func (s *clientServiceStub) RegisterClient(ctx context.Context, input usecase.RegisterClientInput) (*domain.User, *domain.Account, error) {
	return s.registerFn(ctx, input)
}

func (s *clientServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *clientServiceStub) GetClientByAccount(ctx context.Context, accountID string) (*domain.User, error) {
	return s.ownerFn(ctx, accountID)
}

func (s *clientServiceStub) UpdateClient(ctx context.Context, actor *domain.User, input usecase.UpdateClientInput) (*domain.User, error) {
	return s.updateFn(ctx, actor, input)
}

func (s *clientServiceStub) DeleteClient(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *clientServiceStub) SearchClients(ctx context.Context, actor *domain.User, input usecase.SearchClientsInput) ([]*domain.User, error) {
	return s.searchFn(ctx, actor, input)
}

type tokenIssuerStub struct {
	err error
}

func (s tokenIssuerStub) Generate(user *domain.User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + user.ID, nil
}

func TestClientHandler_Register(t *testing.T) {
	var captured usecase.RegisterClientInput
	handler := NewClientHandler(&clientServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterClientInput) (*domain.User, *domain.Account, error) {
			captured = input
			return testClient, testAccount, nil
		},
	}, tokenIssuerStub{})

	req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewBufferString(`{"name":"Ana","email":"ana@bank.test","income":3000}`))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Name != "Ana" || captured.Salary {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp dto.RegisterClientResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != "token-for-"+testClient.ID || resp.Account.ID != testAccount.ID {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientHandler_RegisterErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		tokens tokenIssuerStub
		status int
	}{
		{name: "duplicate email", err: domain.ErrDuplicateEmail, status: http.StatusConflict},
		{name: "invalid email", err: domain.ErrInvalidEmail, status: http.StatusBadRequest},
		{name: "token signing fails", tokens: tokenIssuerStub{err: errors.New("no key")}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewClientHandler(&clientServiceStub{
				registerFn: func(ctx context.Context, input usecase.RegisterClientInput) (*domain.User, *domain.Account, error) {
					if tt.err != nil {
						return nil, nil, tt.err
					}
					return testClient, testAccount, nil
				},
			}, tt.tokens)

			req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewBufferString(`{"name":"Ana","email":"ana@bank.test"}`))
			rec := httptest.NewRecorder()
			handler.Register(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestClientHandler_SearchPassesActor(t *testing.T) {
	var (
		actor *domain.User
		input usecase.SearchClientsInput
	)
	handler := NewClientHandler(&clientServiceStub{
		searchFn: func(ctx context.Context, a *domain.User, in usecase.SearchClientsInput) ([]*domain.User, error) {
			actor, input = a, in
			return []*domain.User{testClient}, nil
		},
	}, tokenIssuerStub{})

	req := httptest.NewRequest(http.MethodGet, "/clients?q=ana&limit=500&offset=2", nil)
	rec := httptest.NewRecorder()
	handler.Search(rec, withUser(req, testManager))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if actor.ID != testManager.ID || input.Query != "ana" || input.Offset != 2 {
		t.Fatalf("unexpected call: actor=%v input=%+v", actor, input)
	}

	var resp dto.ListClientsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Clients) != 1 || resp.Limit != 100 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientHandler_Get(t *testing.T) {
	handler := NewClientHandler(&clientServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id == testClient.ID {
				return testClient, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}, tokenIssuerStub{})

	tests := []struct {
		name   string
		user   *domain.User
		id     string
		status int
	}{
		{name: "self", user: testClient, id: testClient.ID, status: http.StatusOK},
		{name: "other client", user: testClient, id: "user-bruno", status: http.StatusForbidden},
		{name: "manager", user: testManager, id: testClient.ID, status: http.StatusOK},
		{name: "missing", user: testManager, id: "user-ghost", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := routeWithID(httptest.NewRequest(http.MethodGet, "/clients/"+tt.id, nil), tt.id)
			rec := httptest.NewRecorder()
			handler.Get(rec, withUser(req, tt.user))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestClientHandler_UpdateAndDelete(t *testing.T) {
	var (
		updated usecase.UpdateClientInput
		deleted string
	)
	handler := NewClientHandler(&clientServiceStub{
		updateFn: func(ctx context.Context, actor *domain.User, input usecase.UpdateClientInput) (*domain.User, error) {
			if !actor.Role.CanManageClients() {
				return nil, domain.ErrInsufficientRole
			}
			updated = input
			u := *testClient
			u.Name = *input.Name
			return &u, nil
		},
		deleteFn: func(ctx context.Context, actor *domain.User, id string) error {
			deleted = id
			return nil
		},
	}, tokenIssuerStub{})

	req := routeWithID(httptest.NewRequest(http.MethodPut, "/clients/user-ana", bytes.NewBufferString(`{"name":"Ana Lima"}`)), testClient.ID)
	rec := httptest.NewRecorder()
	handler.Update(rec, withUser(req, testManager))

	if rec.Code != http.StatusOK || updated.ID != testClient.ID || *updated.Name != "Ana Lima" {
		t.Fatalf("unexpected update: %d %+v", rec.Code, updated)
	}

	req = routeWithID(httptest.NewRequest(http.MethodPut, "/clients/user-ana", bytes.NewBufferString(`{"name":"x"}`)), testClient.ID)
	rec = httptest.NewRecorder()
	handler.Update(rec, withUser(req, testClient))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a client, got %d", rec.Code)
	}

	req = routeWithID(httptest.NewRequest(http.MethodDelete, "/clients/user-ana", nil), testClient.ID)
	rec = httptest.NewRecorder()
	handler.Delete(rec, withUser(req, testManager))
	if rec.Code != http.StatusNoContent || deleted != testClient.ID {
		t.Fatalf("unexpected delete: %d %s", rec.Code, deleted)
	}
}

func TestClientHandler_AccountOwner(t *testing.T) {
	handler := NewClientHandler(&clientServiceStub{
		ownerFn: func(ctx context.Context, accountID string) (*domain.User, error) {
			if accountID == testAccount.ID {
				return testClient, nil
			}
			return nil, domain.ErrAccountNotFound
		},
	}, nil)

	rec := httptest.NewRecorder()
	handler.AccountOwner(rec, routeWithID(httptest.NewRequest(http.MethodGet, "/accounts/acc-ana/owner", nil), testAccount.ID))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), testClient.ID) {
		t.Fatalf("expected owner, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.AccountOwner(rec, routeWithID(httptest.NewRequest(http.MethodGet, "/accounts/nope/owner", nil), "nope"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown account, got %d", rec.Code)
	}
}
