package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iho/gobank/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/auth"
	"github.com/iho/gobank/internal/infrastructure/clock"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/usecase"
)

const testSecret = "cli-secret"

type migrateCall struct {
	databaseURL string
	sourceURL   string
}

type harness struct {
	out     bytes.Buffer
	clients *usecase.ClientUseCase
	ups     []migrateCall
	downs   []migrateCall
	closed  int
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	h := &harness{}
	h.clients = usecase.NewClientUseCase(
		memory.NewTxManager(store),
		memory.NewUserRepository(store),
		memory.NewAccountRepository(store),
		postgresRepo.NewULIDGenerator(),
		postgresRepo.NewAccountNumberGenerator(),
		clock.NewFixed(time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)),
		"0001",
	)
	return h
}

func (h *harness) run(args ...string) error {
	cmd := newRootCmd(deps{
		loadConfig: func() (*config.Config, error) {
			return &config.Config{
				DatabaseURL:    "postgres://db",
				MigrationsPath: "file://migrations",
				JWTSecret:      testSecret,
				JWTExpiration:  time.Hour,
			}, nil
		},
		openUsers: func(context.Context, *config.Config) (userAdmin, func(), error) {
			return h.clients, func() { h.closed++ }, nil
		},
		migrateUp: func(_ context.Context, databaseURL, sourceURL string) error {
			h.ups = append(h.ups, migrateCall{databaseURL, sourceURL})
			return nil
		},
		migrateDown: func(_ context.Context, databaseURL, sourceURL string) error {
			h.downs = append(h.downs, migrateCall{databaseURL, sourceURL})
			return nil
		},
		out: &h.out,
	})
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func tokenFrom(t *testing.T, output string) string {
	t.Helper()

	for _, line := range strings.Split(output, "\n") {
		if token, ok := strings.CutPrefix(line, "token: "); ok {
			return token
		}
	}
	t.Fatalf("no token in output %q", output)
	return ""
}

func TestMigrateCommands(t *testing.T) {
	h := newHarness(t)

	if err := h.run("migrate", "up"); err != nil {
		t.Fatalf("migrate up failed: %v", err)
	}
	if err := h.run("migrate", "down", "--source", "file:///srv/migrations"); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if len(h.ups) != 1 || h.ups[0] != (migrateCall{"postgres://db", "file://migrations"}) {
		t.Fatalf("unexpected up calls: %+v", h.ups)
	}
	if len(h.downs) != 1 || h.downs[0].sourceURL != "file:///srv/migrations" {
		t.Fatalf("unexpected down calls: %+v", h.downs)
	}
}

func TestManagerCreatePrintsVerifiableToken(t *testing.T) {
	h := newHarness(t)

	if err := h.run("manager", "create", "--name", "Boss", "--email", "boss@bank.test"); err != nil {
		t.Fatalf("manager create failed: %v", err)
	}

	claims, err := auth.NewJWTManager(testSecret, time.Hour).Verify(tokenFrom(t, h.out.String()))
	if err != nil {
		t.Fatalf("printed token does not verify: %v", err)
	}
	if claims.Role != domain.RoleManager || claims.Email != "boss@bank.test" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if h.closed != 1 {
		t.Fatalf("expected storage to be closed once, got %d", h.closed)
	}
}

func TestManagerCreateRequiresFlags(t *testing.T) {
	h := newHarness(t)

	if err := h.run("manager", "create", "--name", "Boss"); err == nil {
		t.Fatalf("expected missing --email to fail")
	}
}

func TestManagerCreateRejectsDuplicateEmail(t *testing.T) {
	h := newHarness(t)

	if err := h.run("manager", "create", "--name", "Boss", "--email", "boss@bank.test"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	err := h.run("manager", "create", "--name", "Boss 2", "--email", "boss@bank.test")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestTokenIssue(t *testing.T) {
	h := newHarness(t)

	manager, err := h.clients.RegisterManager(context.Background(), "Boss", "boss@bank.test")
	if err != nil {
		t.Fatalf("failed to seed manager: %v", err)
	}

	if err := h.run("token", "issue", manager.ID); err != nil {
		t.Fatalf("token issue failed: %v", err)
	}

	claims, err := auth.NewJWTManager(testSecret, time.Hour).Verify(tokenFrom(t, h.out.String()))
	if err != nil {
		t.Fatalf("printed token does not verify: %v", err)
	}
	if claims.UserID != manager.ID {
		t.Fatalf("expected token for %s, got %s", manager.ID, claims.UserID)
	}

	if err := h.run("token", "issue", "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected unknown user error, got %v", err)
	}
}
