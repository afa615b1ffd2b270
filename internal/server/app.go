// Package server initializes and runs the auth server: it wires config,
// logging, storage, migrations and services, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avelichko/inkwell-auth/internal/logging"
	"github.com/avelichko/inkwell-auth/internal/server/api"
	"github.com/avelichko/inkwell-auth/internal/server/auth"
	"github.com/avelichko/inkwell-auth/internal/server/config"
	"github.com/avelichko/inkwell-auth/internal/server/repositories/repomanager"
	"github.com/avelichko/inkwell-auth/internal/server/services"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	apiServer *api.Server
}

// NewApp builds the application from configuration. Missing signing secrets
// are a fatal configuration error; the token codec refuses to construct.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	codec, err := auth.NewTokenCodec(
		[]byte(cfg.AccessSecretKey),
		[]byte(cfg.RefreshSecretKey),
		cfg.AccessTokenValidityDuration,
		cfg.RefreshTokenValidityDuration,
	)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	authService := services.NewAuthService(db, rm, codec)
	apiServer := api.NewServer(cfg.EndpointAddr, logger, authService, codec)

	return &App{config: cfg, logger: logger, db: db, apiServer: apiServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startAPIServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.apiServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startAPIServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
