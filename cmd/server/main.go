package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	httpAdapter "github.com/iho/gobank/internal/adapter/http"
	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobank/internal/adapter/repository/redis"
	"github.com/iho/gobank/internal/infrastructure/auth"
	"github.com/iho/gobank/internal/infrastructure/clock"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/infrastructure/redis"
	"github.com/iho/gobank/internal/usecase"
)

const rateLimitCleanupInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// run wires the application and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.FromContext(ctx)

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      app.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// app is the wired application.
type app struct {
	router  http.Handler
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.FromContext(ctx)
	a := &app{}

	loc, err := clock.LoadLocation(cfg.BankTimezone)
	if err != nil {
		return nil, err
	}
	bankClock := clock.New(loc)

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	checks := store.checks

	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL, cfg.DatabaseTimeout)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		log.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks["redis"] = redisCheck(redisClient)
	} else {
		log.Warn().Msg("REDIS_URL not set, idempotency keys disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opMetrics := metrics.New(registry)

	ids := postgresRepo.NewULIDGenerator()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	accountUC := usecase.NewAccountUseCase(store.accounts)
	ledgerUC := usecase.NewLedgerUseCase(store.txManager, store.accounts, store.entries, store.investments, ids, bankClock, opMetrics)
	transferUC := usecase.NewTransferUseCase(store.txManager, store.accounts, store.users, store.entries, ids, bankClock, opMetrics)
	statementUC := usecase.NewStatementUseCase(store.entries, store.investments, bankClock)
	clientUC := usecase.NewClientUseCase(store.txManager, store.users, store.accounts, ids,
		postgresRepo.NewAccountNumberGenerator(), bankClock, cfg.BankDefaultAgency)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC, accountUC),
		TransferHandler:  handler.NewTransferHandler(transferUC, accountUC),
		StatementHandler: handler.NewStatementHandler(statementUC),
		ClientHandler:    handler.NewClientHandler(clientUC, jwtManager),
		HealthHandler:    handler.NewHealthHandler(checks),
		TokenVerifier:    jwtManager,
		UserLoader:       clientUC,
		Logger:           log,
		HTTPMetrics:      middleware.NewHTTPMetrics(registry),
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	}

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.RunCleanup(ctx, rateLimitCleanupInterval)
		routerCfg.RateLimiter = limiter
	}

	a.router = httpAdapter.NewRouter(routerCfg)
	return a, nil
}

func redisCheck(client goredis.UniversalClient) handler.Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
