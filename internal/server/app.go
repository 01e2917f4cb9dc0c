// Package server initializes and runs the accountd server: it validates
// configuration, opens the database and applies migrations, selects the blob
// storage backend, and starts the HTTP API with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dberzins/accountd/internal/logging"
	"github.com/dberzins/accountd/internal/server/auth"
	"github.com/dberzins/accountd/internal/server/blob"
	"github.com/dberzins/accountd/internal/server/config"
	"github.com/dberzins/accountd/internal/server/httpapi"
	"github.com/dberzins/accountd/internal/server/repositories/repomanager"
	"github.com/dberzins/accountd/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	api    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	// Missing signing secrets must stop startup here, never surface
	// per-request.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewDefault(cfg.LogLevel)

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	issuer, err := auth.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer init error: %w", err)
	}

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob storage init error: %w", err)
	}

	accountService := services.NewAccountService(db, manager)
	sessionService := services.NewSessionService(db, manager, issuer)
	blobService := blob.NewService(storage, cfg.MaxUploadBytes, logger)

	api := httpapi.NewServer(cfg.EndpointAddr, logger, accountService, sessionService, blobService, issuer)

	return &App{config: cfg, logger: logger, api: api}, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (blob.Storage, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendS3:
		return blob.NewS3Storage(ctx, cfg)
	default:
		return blob.NewDiskStorage(cfg.UploadDir, cfg.UploadBaseURL), nil
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.api.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
