package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

type statementServiceStub struct {
	entriesFn     func(ctx context.Context, input usecase.StatementInput) ([]*domain.Entry, error)
	investmentsFn func(ctx context.Context, input usecase.StatementInput) ([]*domain.Investment, error)
}

func (s *statementServiceStub) ListEntries(ctx context.Context, input usecase.StatementInput) ([]*domain.Entry, error) {
	return s.entriesFn(ctx, input)
}

func (s *statementServiceStub) ListInvestments(ctx context.Context, input usecase.StatementInput) ([]*domain.Investment, error) {
	return s.investmentsFn(ctx, input)
}

func TestStatementHandler_Entries(t *testing.T) {
	var captured usecase.StatementInput
	handler := NewStatementHandler(&statementServiceStub{
		entriesFn: func(ctx context.Context, input usecase.StatementInput) ([]*domain.Entry, error) {
			captured = input
			return []*domain.Entry{{ID: "e-2"}, {ID: "e-1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/entries?start=2024-05-01&end=2024-05-10", nil)
	rec := httptest.NewRecorder()
	handler.Entries(rec, withUser(req, testClient))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.AccountID != testClient.AccountID() {
		t.Fatalf("expected caller's account, got %s", captured.AccountID)
	}
	if captured.Range.Start == nil || !captured.Range.Start.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected range: %+v", captured.Range)
	}

	var resp dto.ListEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 2 || resp.Entries[0].ID != "e-2" {
		t.Fatalf("expected order to be preserved, got %+v", resp.Entries)
	}
}

func TestStatementHandler_Investments(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{
		investmentsFn: func(ctx context.Context, input usecase.StatementInput) ([]*domain.Investment, error) {
			if input.Range.Validate() != nil {
				return nil, domain.ErrInvalidDateRange
			}
			return []*domain.Investment{{ID: "i-1", Type: domain.InvestmentFII}}, nil
		},
	})

	tests := []struct {
		name   string
		user   *domain.User
		query  string
		status int
	}{
		{name: "ok", user: testClient, query: "", status: http.StatusOK},
		{name: "reversed range", user: testClient, query: "?start=2024-05-10&end=2024-05-01", status: http.StatusBadRequest},
		{name: "malformed date", user: testClient, query: "?start=yesterday", status: http.StatusBadRequest},
		{name: "manager has no statement", user: testManager, query: "", status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/investments"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.Investments(rec, withUser(req, tt.user))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}
