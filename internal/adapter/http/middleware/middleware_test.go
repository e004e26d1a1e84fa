package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/auth"
)

type stubUsers map[string]*domain.User

func (s stubUsers) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "broken" {
		return nil, domain.NewInfraError("get user", errors.New("connection refused"))
	}
	user, ok := s[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func TestAuthMiddleware(t *testing.T) {
	jwt := auth.NewJWTManager("secret", time.Minute)
	client := &domain.User{ID: "client-1", Email: "ana@bank.test", Role: domain.RoleClient}
	users := stubUsers{client.ID: client}

	token := func(u *domain.User) string {
		tok, err := jwt.Generate(u)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		return "Bearer " + tok
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "unknown user", header: token(&domain.User{ID: "ghost", Role: domain.RoleClient}), status: http.StatusUnauthorized},
		{name: "stale role", header: token(&domain.User{ID: client.ID, Role: domain.RoleManager}), status: http.StatusUnauthorized},
		{name: "user store down", header: token(&domain.User{ID: "broken", Role: domain.RoleClient}), status: http.StatusServiceUnavailable},
		{name: "valid", header: token(client), status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *domain.User
			h := AuthMiddleware(jwt, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = GetUserFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}

			if tt.status == http.StatusOK && (seen == nil || seen.ID != client.ID) {
				t.Fatalf("expected stored user in context, got %+v", seen)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(domain.RoleManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		user   *domain.User
		status int
	}{
		{name: "anonymous", user: nil, status: http.StatusUnauthorized},
		{name: "client", user: &domain.User{ID: "c", Role: domain.RoleClient}, status: http.StatusForbidden},
		{name: "manager", user: &domain.User{ID: "m", Role: domain.RoleManager}, status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), tt.user))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
		})
	}
}

func TestLoggingMiddlewareAttachesLogger(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(zerolog.New(&buf))

	h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusAccepted)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/deposits", nil))

	out := buf.String()
	if !strings.Contains(out, "inside handler") {
		t.Fatalf("expected handler log to use the request logger, got %q", out)
	}
	if !strings.Contains(out, `"status":202`) || !strings.Contains(out, "request completed") {
		t.Fatalf("expected completion log with status, got %q", out)
	}
}

func TestRecoveryReturnsJSONError(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error, got %s", ct)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "9.9.9.9, 10.0.0.1"}, remote: "1.1.1.1:1", want: "9.9.9.9"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "8.8.8.8"}, remote: "1.1.1.1:1", want: "8.8.8.8"},
		{name: "remote addr without port", remote: "1.2.3.4:5678", want: "1.2.3.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tt.want {
				t.Fatalf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterSeparatesClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("1.1.1.1:1000"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send("1.1.1.1:2000"); code != http.StatusTooManyRequests {
		t.Fatalf("expected same host on another port to be throttled, got %d", code)
	}
	if code := send("2.2.2.2:1000"); code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", code)
	}

	rl.CleanupLimiters()
	if code := send("1.1.1.1:1000"); code != http.StatusOK {
		t.Fatalf("expected cleanup to reset limiter, got %d", code)
	}
}
