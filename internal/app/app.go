// Package app assembles the service: configuration, signing keys, database,
// event producer, business logic, and the HTTP server, plus ordered shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sheking94/not-todo-api/internal/config"
	"github.com/sheking94/not-todo-api/internal/event"
	handlerhttp "github.com/sheking94/not-todo-api/internal/handler/http"
	"github.com/sheking94/not-todo-api/internal/repository/postgres"
	"github.com/sheking94/not-todo-api/internal/service"
	"github.com/sheking94/not-todo-api/internal/token"
	"github.com/sheking94/not-todo-api/migrations"
	"github.com/sheking94/not-todo-api/pkg/database"
	"github.com/sheking94/not-todo-api/pkg/health"
	"github.com/sheking94/not-todo-api/pkg/kafka"
	"github.com/sheking94/not-todo-api/pkg/middleware"
)

// App holds the assembled service and its long-lived resources.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	producer *kafka.Producer
	server   *http.Server
}

// New builds the application from configuration. Resources acquired here are
// released by Run on shutdown.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	codec, err := buildCodec(cfg, logger)
	if err != nil {
		return nil, err
	}

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.Kafka.Brokers), logger)
	}

	svc := service.New(
		postgres.NewUserRepository(pool),
		postgres.NewSessionRepository(pool),
		postgres.NewTodoRepository(pool),
		codec,
		event.NewProducer(producer, logger),
		logger,
	)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	h := handlerhttp.NewHandler(svc, handlerhttp.CookieSettings{
		Domain: cfg.Cookie.Domain,
		Path:   cfg.Cookie.Path,
		Secure: !cfg.IsDevelopment(),
	})

	router := handlerhttp.NewRouter(h, handlerhttp.RouterConfig{
		ServiceName:    cfg.ServiceName,
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Verify: func(tokenString string) (*middleware.Claims, error) {
			claims, err := codec.VerifyAccessToken(tokenString)
			if err != nil {
				return nil, err
			}
			return &middleware.Claims{UserID: claims.UserID, Email: claims.Email}, nil
		},
		Health: healthHandler,
		Logger: logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		producer: producer,
		server:   server,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails. Shutdown order: stop accepting requests, flush the event
// producer, then close the database pool.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting",
			slog.String("addr", a.server.Addr),
			slog.String("environment", a.cfg.Environment),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	a.close()
	a.logger.Info("shutdown complete")
	return nil
}

func (a *App) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close failed", slog.String("error", err.Error()))
		}
	}
	a.pool.Close()
}

// buildCodec loads the RSA keypairs from configuration. In development,
// missing keys are replaced with ephemeral ones so the service can start
// without any key material; tokens then die with the process.
func buildCodec(cfg *config.Config, logger *slog.Logger) (*token.Codec, error) {
	accessPEM := []byte(cfg.Token.AccessPrivateKeyPEM)
	refreshPEM := []byte(cfg.Token.RefreshPrivateKeyPEM)

	if len(accessPEM) == 0 || len(refreshPEM) == 0 {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("app: signing keys are required outside development")
		}
		logger.Warn("no signing keys configured, generating ephemeral keys")

		var err error
		if accessPEM, err = token.GenerateSigningKey(); err != nil {
			return nil, err
		}
		if refreshPEM, err = token.GenerateSigningKey(); err != nil {
			return nil, err
		}
	}

	accessKey, err := token.ParsePrivateKeyPEM(accessPEM)
	if err != nil {
		return nil, fmt.Errorf("parse access token key: %w", err)
	}
	refreshKey, err := token.ParsePrivateKeyPEM(refreshPEM)
	if err != nil {
		return nil, fmt.Errorf("parse refresh token key: %w", err)
	}

	return token.NewCodec(token.Config{
		AccessPrivateKey:  accessKey,
		RefreshPrivateKey: refreshKey,
		AccessTTL:         cfg.Token.AccessTTL,
		RefreshTTL:        cfg.Token.RefreshTTL,
		Issuer:            cfg.Token.Issuer,
	})
}
