package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/auth"
	"github.com/iho/gobank/internal/infrastructure/clock"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/usecase"
)

// userAdmin is the slice of ClientUseCase the CLI needs.
type userAdmin interface {
	RegisterManager(ctx context.Context, name, email string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// deps are the side effects of the CLI, swapped out in tests.
type deps struct {
	loadConfig  func() (*config.Config, error)
	openUsers   func(ctx context.Context, cfg *config.Config) (userAdmin, func(), error)
	migrateUp   func(ctx context.Context, databaseURL, sourceURL string) error
	migrateDown func(ctx context.Context, databaseURL, sourceURL string) error
	out         io.Writer
}

func main() {
	log := logger.New(logger.Config{Level: "info", Format: "console"})
	ctx := logger.WithContext(context.Background(), log)

	rootCmd := newRootCmd(deps{
		loadConfig:  config.Load,
		openUsers:   openPostgresUsers,
		migrateUp:   postgres.RunMigrations,
		migrateDown: postgres.RunMigrationsDown,
		out:         os.Stdout,
	})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(d deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gobank-cli",
		Short:         "GoBank CLI tool",
		Long:          `Administrative commands for a GoBank deployment. Settings come from the same environment variables as the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(d.out)

	rootCmd.AddCommand(newMigrateCmd(d), newManagerCmd(d), newTokenCmd(d))
	return rootCmd
}

func newMigrateCmd(d deps) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	var source string
	migrateCmd.PersistentFlags().StringVar(&source, "source", "", "Migrations source URL (default MIGRATIONS_PATH)")

	run := func(apply func(ctx context.Context, databaseURL, sourceURL string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := d.loadConfig()
			if err != nil {
				return err
			}
			if source == "" {
				source = cfg.MigrationsPath
			}
			return apply(cmd.Context(), cfg.DatabaseURL, source)
		}
	}

	migrateCmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", Args: cobra.NoArgs, RunE: run(d.migrateUp)},
		&cobra.Command{Use: "down", Short: "Roll back the last migration", Args: cobra.NoArgs, RunE: run(d.migrateDown)},
	)

	return migrateCmd
}

func newManagerCmd(d deps) *cobra.Command {
	managerCmd := &cobra.Command{
		Use:   "manager",
		Short: "Manager accounts",
	}

	var name, email string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a manager and print a bearer token for it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, users, closeFn, err := open(cmd.Context(), d)
			if err != nil {
				return err
			}
			defer closeFn()

			manager, err := users.RegisterManager(cmd.Context(), name, email)
			if err != nil {
				return fmt.Errorf("failed to create manager: %w", err)
			}

			return printToken(cmd, cfg, manager)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Manager name")
	createCmd.Flags().StringVar(&email, "email", "", "Manager email")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("email")

	managerCmd.AddCommand(createCmd)
	return managerCmd
}

func newTokenCmd(d deps) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Bearer tokens",
	}

	tokenCmd.AddCommand(&cobra.Command{
		Use:   "issue <user-id>",
		Short: "Issue a bearer token for an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, users, closeFn, err := open(cmd.Context(), d)
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := users.GetUser(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load user: %w", err)
			}

			return printToken(cmd, cfg, user)
		},
	})

	return tokenCmd
}

func open(ctx context.Context, d deps) (*config.Config, userAdmin, func(), error) {
	cfg, err := d.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, nil, nil, fmt.Errorf("JWT_SECRET must be set to issue tokens")
	}

	users, closeFn, err := d.openUsers(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, users, closeFn, nil
}

func printToken(cmd *cobra.Command, cfg *config.Config, user *domain.User) error {
	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration).Generate(user)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	cmd.Printf("user_id: %s\nrole: %s\ntoken: %s\n", user.ID, user.Role, token)
	return nil
}

func openPostgresUsers(ctx context.Context, cfg *config.Config) (userAdmin, func(), error) {
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       2,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	loc, err := clock.LoadLocation(cfg.BankTimezone)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	clients := usecase.NewClientUseCase(
		postgresRepo.NewTxManager(pool),
		postgresRepo.NewUserRepository(pool),
		postgresRepo.NewAccountRepository(pool),
		postgresRepo.NewULIDGenerator(),
		postgresRepo.NewAccountNumberGenerator(),
		clock.New(loc),
		cfg.BankDefaultAgency,
	)

	return clients, pool.Close, nil
}
